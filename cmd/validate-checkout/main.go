package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/wb_cart/pkg/validate"
)

// CLI-приложение для проверки запросов оформления заказа (JSON/JSONL).
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	flag.Parse()

	ctx := context.Background()
	checkoutValidator := validate.NewCheckoutValidator()

	format := validate.InputFormat(*formatStr)

	// stdin вариант: считаем, что jsonl
	if *inputPath == "" {
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
		*inputPath = "/dev/stdin"
	}

	report, err := validate.ValidateFile(ctx, checkoutValidator, *inputPath, format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, report)
		os.Exit(1)
	}
	if report.Rejected() > 0 {
		fmt.Fprintf(os.Stderr, "validation finished with rejects (%s)\n", report)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", report)
}
