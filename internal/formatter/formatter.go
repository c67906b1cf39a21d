// package formatter renders application search results as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common alias ("md", "txt").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt", "plain":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, name)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ExportToCSV converts applications to CSV with columns: ID, Name, Job, Build Host, Build Type, Deploy Type, Arch, Validation Type, Env Specific
func ExportToCSV(apps []models.Application) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Job", "Build Host", "Build Type", "Deploy Type", "Arch", "Validation Type", "Env Specific"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, app := range apps {
		record := []string{
			strconv.Itoa(app.ID),
			app.Name,
			app.Job,
			app.BuildHost,
			app.BuildType,
			app.DeployType,
			app.Arch,
			app.ValidationType,
			strconv.FormatBool(app.EnvSpecific),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts applications to a Markdown table headed by the search query.
func ExportToMarkdown(query string, apps []models.Application) ([]byte, error) {
	var buf bytes.Buffer

	if query == "" {
		buf.WriteString("# Applications\n\n")
	} else {
		fmt.Fprintf(&buf, "# Applications matching %q\n\n", query)
	}
	fmt.Fprintf(&buf, "**Results**: %d\n\n", len(apps))

	if len(apps) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| ID | Name | Job | Build Type | Deploy Type | Arch | Env Specific |\n")
	buf.WriteString("|---:|------|-----|------------|-------------|------|:------------:|\n")
	for _, app := range apps {
		envSpecific := ""
		if app.EnvSpecific {
			envSpecific = "✓"
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s | %s |\n",
			app.ID, escapeCell(app.Name), escapeCell(app.Job), app.BuildType, app.DeployType, app.Arch, envSpecific)
	}

	return buf.Bytes(), nil
}

// ExportToText converts applications to plain text, one per line.
func ExportToText(apps []models.Application) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Applications: %d\n\n", len(apps))
	for i, app := range apps {
		fmt.Fprintf(&buf, "%d. %s (#%d)", i+1, app.Name, app.ID)
		if app.Job != "" {
			fmt.Fprintf(&buf, " job=%s", app.Job)
		}
		if app.Arch != "" {
			fmt.Fprintf(&buf, " arch=%s", app.Arch)
		}
		if app.EnvSpecific {
			buf.WriteString(" env-specific")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts applications to a JSON array.
func ExportToJSON(apps []models.Application, pretty bool) ([]byte, error) {
	if apps == nil {
		apps = []models.Application{}
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(apps, "", "  ")
	} else {
		data, err = json.Marshal(apps)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders apps in the given format.
func Export(f Format, query string, apps []models.Application) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(apps)
	case FormatMarkdown:
		return ExportToMarkdown(query, apps)
	case FormatJSON:
		return ExportToJSON(apps, true)
	default:
		return ExportToText(apps)
	}
}

// WriteExport renders apps and writes them to path, creating parent directories.
//
// An empty path defaults to applications{ext} in the working directory.
func WriteExport(f Format, query string, apps []models.Application, path string) (string, error) {
	if path == "" {
		path = "applications" + f.Extension()
	}

	data, err := Export(f, query, apps)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
