package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Translator translates a message key.
type Translator func(key string) string

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the translator used for headings and labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the tool version shown in the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder
	t := f.translate

	fmt.Fprintf(&b, "# %s\n\n", t("Export Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format(time.RFC3339))

	f.section(&b, t("Source"), [][2]string{
		{t("File"), orDash(s.Source.Path)},
		{t("Format"), s.Source.Format},
		{t("Dimensions"), fmt.Sprintf("%dx%d", s.Source.Width, s.Source.Height)},
		{t("File Size"), formatBytes(s.Source.ByteSize)},
	})

	f.section(&b, t("Edits"), [][2]string{
		{t("Rotation"), fmt.Sprintf("%g°", s.Edit.RotationDeg)},
		{t("Flip"), f.flipLabel(s.Edit)},
		{t("Crop"), f.cropLabel(s.Edit.Crop)},
		{t("Zoom"), f.zoomLabel(s.Edit)},
	})

	f.section(&b, t("Settings"), [][2]string{
		{t("Format"), s.Settings.Format},
		{t("Quality"), fmt.Sprintf("%.2f", s.Settings.Quality)},
		{t("Target Size"), f.targetLabel(s.Settings.TargetSizeBytes)},
		{t("Resize"), f.resizeLabel(s.Settings)},
		{t("Watermark"), f.noneIfEmpty(s.Settings.Watermark)},
	})

	out := [][2]string{
		{t("File"), orDash(s.Output.Path)},
		{t("Format"), s.Output.Format},
		{t("Dimensions"), fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height)},
		{t("File Size"), formatBytes(s.Output.ByteSize)},
		{t("Quality Used"), fmt.Sprintf("%.2f", s.Output.Quality)},
		{t("Encode Attempts"), fmt.Sprintf("%d", s.Output.Attempts)},
	}
	if s.Settings.TargetSizeBytes > 0 {
		met := t("Yes")
		if !s.Output.TargetMet {
			met = t("No")
		}
		out = append(out, [2]string{t("Target Met"), met})
	}
	if s.Output.ExportID != "" {
		out = append(out, [2]string{t("Export ID"), "`" + s.Output.ExportID + "`"})
	}
	f.section(&b, t("Output"), out)

	b.WriteString("---\n\n")
	if f.version != "" {
		fmt.Fprintf(&b, "*%s picedit %s*\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&b, "*%s picedit*\n", t("Generated by"))
	}

	return b.String()
}

func (f *MarkdownFormatter) section(b *strings.Builder, title string, rows [][2]string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|------|-------|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", row[0], row[1])
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) flipLabel(e EditInfo) string {
	var parts []string
	if e.FlipX {
		parts = append(parts, f.translate("Horizontal"))
	}
	if e.FlipY {
		parts = append(parts, f.translate("Vertical"))
	}
	if len(parts) == 0 {
		return f.translate("None")
	}
	return strings.Join(parts, ", ")
}

func (f *MarkdownFormatter) cropLabel(c *CropInfo) string {
	if c == nil {
		return f.translate("Full image")
	}
	return fmt.Sprintf("%dx%d @ (%d, %d)", c.Width, c.Height, c.X, c.Y)
}

func (f *MarkdownFormatter) zoomLabel(e EditInfo) string {
	if !e.ZoomApplied {
		return fmt.Sprintf("%.2fx (%s)", e.Scale, f.translate("view only"))
	}
	return fmt.Sprintf("%.2fx", e.Scale)
}

func (f *MarkdownFormatter) targetLabel(bytes int64) string {
	if bytes <= 0 {
		return f.translate("None")
	}
	return formatBytes(bytes)
}

func (f *MarkdownFormatter) resizeLabel(s Settings) string {
	if s.TargetWidth <= 0 && s.TargetHeight <= 0 {
		return f.translate("None")
	}
	dim := func(v int) string {
		if v <= 0 {
			return "auto"
		}
		return fmt.Sprintf("%d", v)
	}
	label := dim(s.TargetWidth) + "x" + dim(s.TargetHeight)
	if s.MaintainAspectRatio {
		label += " (" + f.translate("keep aspect") + ")"
	}
	return label
}

func (f *MarkdownFormatter) noneIfEmpty(v string) string {
	if v == "" {
		return f.translate("None")
	}
	return v
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// formatBytes formats a byte count with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}
