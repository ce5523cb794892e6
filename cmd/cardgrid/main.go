package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gompdf/cardgrid"
)

func main() {
	var (
		dataFile   string
		outputFile string
		jobFile    string
		charset    string
		pageSize   string
		title      string
		landscape  bool
		verbose    bool
	)

	flag.StringVar(&dataFile, "data", "", "Participants JSON file path")
	flag.StringVar(&outputFile, "output", "", "Output PDF file path")
	flag.StringVar(&jobFile, "config", "", "YAML job file with header, meta and overrides")
	flag.StringVar(&charset, "charset", "", "Character set of the data file (default UTF-8)")
	flag.StringVar(&pageSize, "page", "", "Page size: a0-a6, letter or legal")
	flag.StringVar(&title, "title", "", "Document title")
	flag.BoolVar(&landscape, "landscape", false, "Use landscape orientation")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	job := &cardgrid.Job{}
	if jobFile != "" {
		var err error
		job, err = cardgrid.LoadJob(jobFile)
		if err != nil {
			fmt.Printf("Error reading job file: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags win over the job file
	if dataFile != "" {
		job.Data = dataFile
	}
	if outputFile != "" {
		job.Output = outputFile
	}
	if charset != "" {
		job.Charset = charset
	}
	if pageSize != "" {
		job.PageSize = strings.ToLower(pageSize)
	}
	if title != "" {
		job.Title = title
	}
	if landscape {
		job.Landscape = true
	}

	if job.Data == "" {
		fmt.Println("Error: data file is required")
		flag.Usage()
		os.Exit(1)
	}
	if job.Output == "" {
		ext := filepath.Ext(job.Data)
		job.Output = job.Data[:len(job.Data)-len(ext)] + ".pdf"
	}

	options, err := job.Options()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	options.Debug = verbose

	generator := cardgrid.NewWithOptions(options)
	err = generator.GenerateFile(job.Data, job.Charset, job.Header, job.Meta, job.Output)
	if err != nil {
		fmt.Printf("Error generating PDF: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Successfully generated %s from %s\n", job.Output, job.Data)
	}
}
