package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const (
	defaultServerURL = "http://localhost:8080"
)

func main() {
	var serverURL string
	var outputPath string
	var format string
	flag.StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	flag.StringVar(&serverURL, "s", defaultServerURL, "Server URL (short)")
	flag.StringVar(&outputPath, "output", "", "Write response bytes to a file")
	flag.StringVar(&outputPath, "o", "", "Write response bytes to a file (short)")
	flag.StringVar(&format, "format", "", "Byte output format: raw, hex or base64")
	flag.StringVar(&format, "f", "", "Byte output format (short)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	args := flag.Args()

	var err error
	switch args[0] {
	case "render":
		err = runRender(serverURL, format, outputPath, args[1:])
	case "print":
		err = runPrint(serverURL, args[1:])
	case "preview":
		err = runPreview(serverURL, outputPath, args[1:])
	case "barcode":
		err = runBarcode(serverURL, format, outputPath, args[1:])
	case "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `POS Print CLI

Usage:
  posprint-cli [flags] <command>

Flags:
  -s, -server <url>    Server URL (default: %s)
  -o, -output <path>   Write response bytes to a file
  -f, -format <fmt>    Byte output format: raw, hex or base64

Commands:
  render <document.json>
    Compose a receipt and return the printer bytes without printing.
    Defaults to a hex dump on stdout; use -o for raw bytes.

  print <document.json>
    Compose a receipt and send it to the printer behind the server.

  preview <document.json>
    Render a PNG approximation of the receipt (default: receipt.png).

  barcode <payload> <symbology> [options...]
    Encode a standalone barcode. Symbologies: CODE128, CODE39, EAN13,
    EAN8, UPC_A, ITF. Options:
      height:<dots>     - Bar height in dots
      module:<width>    - Module width in dots
      hri:<position>    - Text position: none, above, below, both
      font:<a|b>        - HRI font
      feed:<lines>      - Lines to feed after the symbol

  help
    Show this help message

Examples:
  posprint-cli render ./order.json
  posprint-cli -o order.bin render ./order.json
  posprint-cli print ./order.json
  posprint-cli -o order.png preview ./order.json
  posprint-cli barcode ORD-2051 CODE128 height:90 hri:below
  posprint-cli -s http://192.168.1.50:8080 print ./order.json

`, defaultServerURL)
}

func runRender(serverURL, format, outputPath string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: render <document.json>")
	}

	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	// Raw printer bytes are unreadable on a terminal, so stdout defaults
	// to the hex dump unless the caller picked a format or a file.
	if format == "" && outputPath == "" {
		format = "hex"
	}

	data, err := postBytes(serverURL, "/api/receipts/render", format, doc)
	if err != nil {
		return err
	}

	return writeOutput(outputPath, data)
}

func runPrint(serverURL string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: print <document.json>")
	}

	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	data, err := postBytes(serverURL, "/api/receipts/print", "", doc)
	if err != nil {
		return err
	}

	var result struct {
		JobID string `json:"job_id"`
		Bytes int    `json:"bytes"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Printed job %s (%d bytes)\n", result.JobID, result.Bytes)
	return nil
}

func runPreview(serverURL, outputPath string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: preview <document.json>")
	}

	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	data, err := postBytes(serverURL, "/api/receipts/preview", "", doc)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = "receipt.png"
	}
	return writeOutput(outputPath, data)
}

func runBarcode(serverURL, format, outputPath string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: barcode <payload> <symbology> [options...]")
	}

	req := map[string]interface{}{
		"payload":   args[0],
		"symbology": args[1],
	}
	for _, arg := range args[2:] {
		if err := parseBarcodeOption(req, arg); err != nil {
			return err
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if format == "" && outputPath == "" {
		format = "hex"
	}

	data, err := postBytes(serverURL, "/api/barcodes/render", format, body)
	if err != nil {
		return err
	}

	return writeOutput(outputPath, data)
}

// parseBarcodeOption parses one "name:value" option into the request body.
func parseBarcodeOption(req map[string]interface{}, arg string) error {
	name, value, ok := strings.Cut(arg, ":")
	if !ok {
		return fmt.Errorf("option must be in format 'name:value', got: %s", arg)
	}

	switch name {
	case "height":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid height value: %s", value)
		}
		req["height_dots"] = n
	case "module":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid module value: %s", value)
		}
		req["module_width"] = n
	case "hri":
		req["hri_position"] = value
	case "font":
		req["hri_font"] = value
	case "feed":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid feed value: %s", value)
		}
		req["feed_lines"] = n
	default:
		return fmt.Errorf("unknown barcode option: %s", name)
	}

	return nil
}

// postBytes posts a JSON body and returns the response payload. A non-raw
// format is forwarded to the server as a query parameter.
func postBytes(serverURL, path, format string, body []byte) ([]byte, error) {
	url := strings.TrimSuffix(serverURL, "/") + path
	if format != "" && format != "raw" {
		url += "?format=" + format
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, payload.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return data, nil
}

func writeOutput(outputPath string, data []byte) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	fmt.Printf("Wrote %d bytes to %s\n", len(data), outputPath)
	return nil
}
