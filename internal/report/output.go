package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/costspectre/internal/analyzer"
)

// Default artifact names inside the output directory.
const (
	HTMLFileName  = "cost_analysis_report.html"
	JSONFileName  = "aws_cost_report.json"
	CSVFileName   = "aws_cost_report.csv"
	SARIFFileName = "aws_cost_report.sarif"
)

// Outputs selects where artifacts are written.
type Outputs struct {
	Dir      string
	HTMLPath string
	SARIF    bool
}

// Artifact is one report file to produce.
type Artifact struct {
	Path     string
	Reporter func(w io.Writer) Reporter
}

// Artifacts lists the files produced for the given outputs.
func (o Outputs) Artifacts() []Artifact {
	htmlPath := o.HTMLPath
	if htmlPath == "" {
		htmlPath = filepath.Join(o.Dir, HTMLFileName)
	}

	artifacts := []Artifact{
		{Path: filepath.Join(o.Dir, JSONFileName), Reporter: func(w io.Writer) Reporter { return &JSONReporter{Writer: w} }},
		{Path: filepath.Join(o.Dir, CSVFileName), Reporter: func(w io.Writer) Reporter { return &CSVReporter{Writer: w} }},
		{Path: htmlPath, Reporter: func(w io.Writer) Reporter { return &HTMLReporter{Writer: w} }},
	}
	if o.SARIF {
		artifacts = append(artifacts, Artifact{
			Path:     filepath.Join(o.Dir, SARIFFileName),
			Reporter: func(w io.Writer) Reporter { return &SARIFReporter{Writer: w} },
		})
	}
	return artifacts
}

// WriteAll renders every artifact into memory, stages each next to its target
// and only then renames them into place, so a failure leaves the previous run's
// reports untouched. It returns the paths written.
func WriteAll(result *analyzer.AnalysisResult, outputs Outputs) ([]string, error) {
	artifacts := outputs.Artifacts()

	rendered := make([][]byte, len(artifacts))
	for i, a := range artifacts {
		var buf bytes.Buffer
		if err := a.Reporter(&buf).Generate(result); err != nil {
			return nil, fmt.Errorf("render %s: %w", a.Path, err)
		}
		rendered[i] = buf.Bytes()
	}

	staged := make([]string, 0, len(artifacts))
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for i, a := range artifacts {
		tmp, err := stageFile(a.Path, rendered[i])
		if err != nil {
			return nil, err
		}
		staged = append(staged, tmp)
	}

	var written []string
	for i, a := range artifacts {
		if err := os.Rename(staged[i], a.Path); err != nil {
			return written, fmt.Errorf("replace %s: %w", a.Path, err)
		}
		slog.Debug("Report written", "path", a.Path)
		written = append(written, a.Path)
	}
	return written, nil
}

// stageFile writes data to a temporary file in path's directory and returns its name.
func stageFile(path string, data []byte) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return f.Name(), nil
}
