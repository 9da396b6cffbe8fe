package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/wb_cart/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ResolveFormat — auto по расширению файла; без .jsonl считается JSON.
func ResolveFormat(format InputFormat, filePath string) InputFormat {
	if format != FormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(filePath), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// ValidateFile — проверяет файл с запросами оформления (JSON или JSONL).
// Принятые запросы пишутся в writer как CheckoutLine (количества по товарам).
// Для одиночного JSON отклонённый запрос возвращается ещё и ошибкой.
func ValidateFile(ctx context.Context, validator ports.CheckoutValidator, filePath string, format InputFormat, ow io.Writer) (Report, error) {
	var report Report

	format = ResolveFormat(format, filePath)
	if format != FormatJSON && format != FormatJSONL {
		return report, fmt.Errorf("unsupported format: %s", format)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return report, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if format == FormatJSONL {
		return ValidateJSONLStream(ctx, validator, file, ow)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return report, fmt.Errorf("read file: %w", err)
	}
	req, err := CheckoutFromJSON(ctx, validator, raw)
	if err != nil {
		report.reject(err)
		return report, err
	}
	line, _ := json.Marshal(newCheckoutLine(req))
	if _, err := ow.Write(append(line, '\n')); err != nil {
		return report, fmt.Errorf("write json: %w", err)
	}
	report.Valid++
	return report, nil
}
