package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Downloader is a command-line tool a download script is written for.
type Downloader string

const (
	Curl Downloader = "curl"
	Wget Downloader = "wget"
)

// Downloaders lists the tools scripts are generated for, in write order.
var Downloaders = []Downloader{Curl, Wget}

// ScriptName returns the public file name of the tool's download script.
func (d Downloader) ScriptName() string {
	return string(d) + "-download_samples.txt"
}

func (d Downloader) command(url string) string {
	switch d {
	case Curl:
		return "curl -O " + url
	default:
		return string(d) + " " + url
	}
}

// DownloadScript renders a bash script fetching every read pair and the sample sheet.
func DownloadScript(d Downloader, details *FileDetails) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n\n")
	for _, s := range details.Samples {
		b.WriteString(d.command(s.R1URL) + "\n")
		b.WriteString(d.command(s.R2URL) + "\n")
	}
	b.WriteString(d.command(details.SampleSheet.URL) + "\n")
	return b.String()
}

// WriteScripts writes one executable download script per downloader into dir
// and returns their paths.
func WriteScripts(dir string, details *FileDetails) ([]string, error) {
	var paths []string
	for _, d := range Downloaders {
		path := filepath.Join(dir, d.ScriptName())
		if err := os.WriteFile(path, []byte(DownloadScript(d, details)), 0o755); err != nil {
			return nil, fmt.Errorf("write %s script: %w", d, err)
		}
		// WriteFile keeps the mode of an existing file.
		if err := os.Chmod(path, 0o755); err != nil {
			return nil, fmt.Errorf("chmod %s script: %w", d, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
