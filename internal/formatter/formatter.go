// Package formatter provides functions to export saved characters to various formats (JSON, YAML, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/desertthunder/marvelx/internal/models"
	"github.com/desertthunder/marvelx/internal/shared"
)

const (
	// DescriptionNotAvailable is shown in place of an empty description.
	DescriptionNotAvailable = "Description not available"
	// ThumbnailNotAvailable is appended to the character name when there is no thumbnail.
	ThumbnailNotAvailable = "thumbnail not available"
)

// Format is an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat maps a flag value to a [Format]. "yml", "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want json, yaml, csv, markdown or txt)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// DescriptionText returns the description or the not-available fallback.
func DescriptionText(c models.MarvelCharacter) string {
	if c.HasDescription() {
		return c.Description
	}
	return DescriptionNotAvailable
}

// ThumbnailAltText returns the alternative text for a character's thumbnail.
//
// Without a thumbnail it reads "<name> thumbnail not available".
func ThumbnailAltText(c models.MarvelCharacter) string {
	if c.HasThumbnail() {
		return c.Name + " thumbnail"
	}
	return c.Name + " " + ThumbnailNotAvailable
}

// Export writes characters to w in the given format.
func Export(w io.Writer, characters []models.MarvelCharacter, format Format) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = ExportToJSON(characters)
	case FormatYAML:
		data, err = ExportToYAML(characters)
	case FormatCSV:
		data, err = ExportToCSV(characters)
	case FormatMarkdown:
		data, err = ExportToMarkdown(characters, nil)
	case FormatText:
		data, err = ExportToText(characters)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportToJSON converts characters to an indented JSON array.
func ExportToJSON(characters []models.MarvelCharacter) ([]byte, error) {
	if characters == nil {
		characters = []models.MarvelCharacter{}
	}
	data, err := shared.MarshalJSON(characters, true)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML converts characters to a YAML sequence.
func ExportToYAML(characters []models.MarvelCharacter) ([]byte, error) {
	if characters == nil {
		characters = []models.MarvelCharacter{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(characters); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToCSV converts characters to CSV format with columns: ID, Name, Description, Thumbnail
func ExportToCSV(characters []models.MarvelCharacter) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Description", "Thumbnail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range characters {
		record := []string{c.ID, c.Name, c.Description, c.ThumbnailURL}
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

// ExportToMarkdown converts characters to Markdown.
//
// images maps character ids to local image paths; characters without one link their remote thumbnail.
func ExportToMarkdown(characters []models.MarvelCharacter, images map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Saved Characters\n\n")
	buf.WriteString(fmt.Sprintf("**Characters**: %d\n\n", len(characters)))

	for _, c := range characters {
		buf.WriteString(fmt.Sprintf("## %s\n\n", c.Name))

		switch img := images[c.ID]; {
		case img != "":
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", ThumbnailAltText(c), img))
		case c.HasThumbnail():
			buf.WriteString(fmt.Sprintf("![%s](%s)\n\n", ThumbnailAltText(c), c.ThumbnailURL))
		default:
			buf.WriteString(fmt.Sprintf("_%s_\n\n", ThumbnailAltText(c)))
		}

		buf.WriteString(DescriptionText(c) + "\n\n")
		buf.WriteString(fmt.Sprintf("**ID**: %s\n\n", c.ID))
	}

	return buf.Bytes(), nil
}

// ExportToText converts characters to plain text format
func ExportToText(characters []models.MarvelCharacter) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Saved characters: %d\n\n", len(characters)))

	for i, c := range characters {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, c.Name, c.ID))
		buf.WriteString(fmt.Sprintf("   %s\n", DescriptionText(c)))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download image: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download image: status %d", shared.ErrNetwork, resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteFile writes characters in format to path and returns the path.
//
// Defaults to saved_characters.{ext} in the working directory.
func WriteFile(characters []models.MarvelCharacter, format Format, path string) (string, error) {
	if path == "" {
		path = "saved_characters." + format.Extension()
	}

	var buf bytes.Buffer
	if err := Export(&buf, characters, format); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Images    []string
}

// WriteMarkdownExport exports characters to Markdown in a dedicated directory.
//
// When withImages is set, thumbnails are downloaded to {dir}/images/{id}.{ext} and linked locally.
// A failed download falls back to the remote link. Creates {dir}/README.md.
func WriteMarkdownExport(characters []models.MarvelCharacter, outputDir string, withImages bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "saved_characters"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
		Images:    []string{},
	}

	images := map[string]string{}
	if withImages {
		imageDir := filepath.Join(outputDir, "images")
		if err := os.MkdirAll(imageDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create image directory: %w", err)
		}

		for _, c := range characters {
			if !c.HasThumbnail() {
				continue
			}
			data, err := DownloadImage(c.ThumbnailURL)
			if err != nil {
				continue
			}

			name := c.ID + imageExt(c.ThumbnailURL)
			if err := os.WriteFile(filepath.Join(imageDir, name), data, 0644); err != nil {
				continue
			}
			images[c.ID] = "images/" + name
			result.Images = append(result.Images, filepath.Join(imageDir, name))
		}
		result.Files = append(result.Files, result.Images...)
	}

	mdData, err := ExportToMarkdown(characters, images)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

func imageExt(url string) string {
	if ext := filepath.Ext(url); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".jpg"
}

// RenderMarkdown styles markdown for the terminal, wrapped at width columns.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
