package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"promptsmith/internal/llm"
	"promptsmith/internal/pipeline"
)

func main() {
	problem := flag.String("problem", "", "problem statement to optimize (or - to read stdin)")
	model := flag.String("model", "gemini-2.5-flash", "Gemini model id")
	provider := flag.String("provider", "gemini", "completion provider: gemini or fake")
	outDir := flag.String("out", "out", "output directory")
	flag.Parse()

	text := strings.TrimSpace(*problem)
	if text == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		text = strings.TrimSpace(string(b))
	}
	if text == "" {
		log.Fatal("--problem is required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	_ = godotenv.Load()

	ctx := context.Background()
	var cli llm.Client
	if *provider == "fake" {
		cli = llm.NewFakeClient()
	} else {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is not set")
		}
		var err error
		cli, err = llm.NewGeminiClient(ctx, apiKey, *model)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer cli.Close()
	cli = llm.WithLogging(cli, nil)

	runner := pipeline.NewRunner(cli)
	result, err := runner.Run(ctx, text)
	if err != nil {
		log.Fatal(err)
	}

	writeJSON(*outDir, "persona.json", result.Persona)
	writeJSON(*outDir, "methodology.json", result.Methodology)
	writeJSON(*outDir, "optimized.json", result.Optimized)
	log.Printf("pipeline completed, results in %s", *outDir)
}

func writeJSON(dir, name string, raw json.RawMessage) {
	var buf strings.Builder
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		if b, err := json.MarshalIndent(v, "", "  "); err == nil {
			buf.Write(b)
		}
	}
	out := buf.String()
	if out == "" {
		out = string(raw)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(out), 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", name, err)
	}
}
