// fincconv converts one delivered source file into normalized records.
//
// $ fincconv -s 35 -m lcc_patterns.txt 35_input.xml 35_output.mrc
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ubleipzig/fincconv/internal/sources"
)

var (
	sourceKey    = flag.String("s", "", "source to convert (SID or name)")
	outputFormat = flag.String("t", "", "output format (mrc, xml, ndj); default per source")
	configFile   = flag.String("c", "", "sources config file (YAML)")
	fileMap      = flag.String("m", "", "mapping file, e.g. call number allow-list")
	listSources  = flag.Bool("l", false, "list registered sources")
	showVersion  = flag.Bool("version", false, "show version")
)

func main() {
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()

	if *showVersion == true {
		fmt.Printf("fincconv %s\n", version())
		return
	}

	if *listSources == true {
		for _, src := range sources.All() {
			fmt.Printf("%-5s %-12s %s\n", src.SID, src.Name, src.Description)
		}
		return
	}

	if *sourceKey == "" {
		flag.Usage()
		os.Exit(1)
	}

	src, ok := sources.Lookup(*sourceKey)
	if ok == false {
		log.Fatalf("[MAIN] unknown source: [%s]", *sourceKey)
	}

	settings, err := loadSettings(*configFile, src)
	if err != nil {
		log.Fatalf("[MAIN] %s", err.Error())
	}

	format := *outputFormat
	if format == "" {
		format = src.OutputExt
	}

	inputName, outputName := fileNames(src, format, flag.Args())

	runner, err := src.New(sources.Config{
		Settings:     settings,
		OutputFormat: format,
		FileMap:      *fileMap,
	})
	if err != nil {
		log.Fatalf("[MAIN] source %s: %s", src.SID, err.Error())
	}

	input, err := os.Open(inputName)
	if err != nil {
		log.Fatalf("[MAIN] %s", err.Error())
	}
	defer input.Close()

	output, err := os.Create(outputName)
	if err != nil {
		log.Fatalf("[MAIN] %s", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[MAIN] source %s: [%s] -> [%s]", src.SID, inputName, outputName)

	stats, err := runner.Run(ctx, input, output)

	stats.Log()

	if err != nil {
		output.Close()
		log.Fatalf("[MAIN] source %s: %s", src.SID, err.Error())
	}

	if err := output.Close(); err != nil {
		log.Fatalf("[MAIN] %s", err.Error())
	}
}

// fileNames applies the positional overrides over the per-source
// defaults.
func fileNames(src *sources.Source, format string, args []string) (string, string) {
	input := fmt.Sprintf("%s_input.%s", src.SID, src.InputExt)
	output := fmt.Sprintf("%s_output.%s", src.SID, format)

	switch len(args) {
	case 1:
		input = args[0]

	case 2:
		input, output = args[0], args[1]
	}

	return input, output
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fincconv -s source [options] [input [output]]\n\noptions:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nsources:\n")

	for _, src := range sources.All() {
		fmt.Fprintf(os.Stderr, "  %-5s %-12s %s\n", src.SID, src.Name, src.Description)
	}
}
