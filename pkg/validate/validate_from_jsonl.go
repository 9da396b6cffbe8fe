package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/wb_cart/internal/ports"
)

// ValidateJSONLStream — построчная валидация запросов оформления.
// Принятые строки пишутся в writer как CheckoutLine, пустые пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.CheckoutValidator, ir io.Reader, ow io.Writer) (Report, error) {
	var res Report

	scanner := bufio.NewScanner(ir)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		lineBytes := scanner.Bytes()
		if strings.TrimSpace(string(lineBytes)) == "" {
			continue
		}

		req, err := CheckoutFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.reject(err)
			continue
		}

		line, _ := json.Marshal(newCheckoutLine(req))
		line = append(line, '\n')
		if _, err := ow.Write(line); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		res.Valid++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
