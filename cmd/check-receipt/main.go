package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garyjia/settlement-portal/internal/application/aicheck"
	"github.com/garyjia/settlement-portal/internal/domain/entity"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/anthropic"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/openai"
	"github.com/garyjia/settlement-portal/internal/infrastructure/external/pdf"
	"github.com/garyjia/settlement-portal/pkg/utils"
)

func main() {
	file := flag.String("file", "", "Receipt image or PDF to check")
	tool := flag.String("tool", "", "Claimed tool or service name")
	amount := flag.Int64("amount", 0, "Claimed amount in yen")
	month := flag.String("month", time.Now().Format("2006-01"), "Target month (YYYY-MM)")
	purpose := flag.String("purpose", "", "Claimed purpose")
	prompts := flag.String("prompts", "", "Prompts YAML (built-in prompts when empty)")
	model := flag.String("model", "", "Override the model for this file type")
	timeout := flag.Duration("timeout", 90*time.Second, "AI call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      level,
		OutputPath: "stderr",
		Format:     "console",
		Service:    utils.ServiceName,
		Component:  "check-receipt",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *file == "" || *tool == "" {
		fmt.Fprintf(os.Stderr, "Usage: check-receipt --file receipt.pdf --tool Figma --amount 5250 [--month 2025-01] [--purpose ...]\n")
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot read %s: %v\n", *file, err)
		os.Exit(1)
	}
	mimeType := detectMimeType(*file, data)

	p, err := aicheck.LoadPrompts(*prompts, aicheck.DefaultYenPerUSD)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to load prompts: %v\n", err)
		os.Exit(1)
	}

	imageCfg := openai.Config{APIKey: os.Getenv(openai.CredentialEnv)}
	pdfCfg := anthropic.Config{APIKey: os.Getenv(anthropic.CredentialEnv)}
	if *model != "" {
		if mimeType == aicheck.MimeTypePDF {
			pdfCfg.Model = *model
		} else {
			imageCfg.Model = *model
		}
	}

	checker := aicheck.NewChecker(
		openai.NewReceiptModel(imageCfg, logger),
		anthropic.NewReceiptModel(pdfCfg, logger),
		p,
		aicheck.WithPDFInspector(pdf.NewInspector(), 5),
	)

	fmt.Println("=== Receipt Check ===")
	fmt.Printf("  File: %s (%s, %d bytes)\n", *file, mimeType, len(data))
	fmt.Printf("  Claim: %s / ¥%d / %s\n", *tool, *amount, *month)
	fmt.Printf("  Timeout: %v\n\n", *timeout)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := checker.Check(ctx, data, mimeType, entity.Claim{
		Tool:        *tool,
		Amount:      *amount,
		TargetMonth: *month,
		Purpose:     *purpose,
	})

	fmt.Printf("Risk level: %s (confidence %.2f, %dms)\n", result.RiskLevel, result.Confidence, result.ProcessingTime)
	fmt.Printf("Extracted: ¥%d, %s, %s\n", result.ExtractedAmount, result.ExtractedDate, result.ExtractedVendor)
	for i, f := range result.Findings {
		fmt.Printf("  %d. %s\n", i+1, f)
	}

	fmt.Println("\n=== Full Result (JSON) ===")
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))

	if result.RiskLevel == entity.RiskError {
		os.Exit(1)
	}
}

// detectMimeType prefers the extension and falls back to content sniffing.
func detectMimeType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return aicheck.MimeTypePDF
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}
