package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/ubleipzig/fincconv/internal/sources"
)

// git commit used for this build; supplied at compile time
var gitCommit string

type serviceVersion struct {
	BuildVersion string `json:"build,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
}

type serviceIdentity struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Sources     []sourceSummary `json:"sources"`
}

type sourceSummary struct {
	SID         string `json:"sid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Available   bool   `json:"available"`
}

// runnerKey identifies one prepared runner by source SID and output
// format.
type runnerKey struct {
	sid    string
	format string
}

type svcContext struct {
	config   *serviceConfig
	version  serviceVersion
	identity serviceIdentity
	runners  map[runnerKey]sources.Runner
}

func (s *svcContext) initVersion() {
	buildVersion := "unknown"
	files, _ := os.ReadDir(".")
	for _, entry := range files {
		if name := entry.Name(); len(name) > 9 && name[:9] == "buildtag." {
			buildVersion = name[9:]
		}
	}

	s.version = serviceVersion{
		BuildVersion: buildVersion,
		GoVersion:    fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		GitCommit:    gitCommit,
	}

	log.Printf("[SERVICE] version.BuildVersion  = [%s]", s.version.BuildVersion)
	log.Printf("[SERVICE] version.GoVersion     = [%s]", s.version.GoVersion)
	log.Printf("[SERVICE] version.GitCommit     = [%s]", s.version.GitCommit)
}

func (s *svcContext) initIdentity() {
	s.identity = serviceIdentity{
		Name:        s.config.Identity.Name,
		Description: s.config.Identity.Description,
	}

	if s.identity.Name == "" {
		s.identity.Name = "fincconv-ws"
	}

	log.Printf("[SERVICE] identity.Name         = [%s]", s.identity.Name)
	log.Printf("[SERVICE] identity.Description  = [%s]", s.identity.Description)
}

// sourceFormats lists the output formats a source is prepared for.
func sourceFormats(src *sources.Source) []string {
	if src.OutputExt == sources.FormatBinary {
		return []string{sources.FormatBinary, sources.FormatXML}
	}

	return []string{src.OutputExt}
}

// initSources prepares one runner per source and output format.
// Sources with an entry in the config must construct cleanly; sources
// without one that cannot construct on empty settings are reported as
// unavailable and skipped.
func (s *svcContext) initSources() {
	s.runners = make(map[runnerKey]sources.Runner)

	invalid := false

	for _, src := range sources.All() {
		settings, configured := s.config.Sources[src.SID]
		if configured == false {
			settings, configured = s.config.Sources[src.Name]
		}

		available := true

		for _, format := range sourceFormats(src) {
			runner, err := src.New(sources.Config{
				Settings:     settings,
				OutputFormat: format,
			})

			if err != nil {
				available = false

				if configured == true {
					log.Printf("[VALIDATE] source %s: %s", src.SID, err.Error())
					invalid = true
				} else {
					log.Printf("[SERVICE] source %s not available: %s", src.SID, err.Error())
				}

				break
			}

			s.runners[runnerKey{sid: src.SID, format: format}] = runner
		}

		s.identity.Sources = append(s.identity.Sources, sourceSummary{
			SID:         src.SID,
			Name:        src.Name,
			Description: src.Description,
			Available:   available,
		})

		log.Printf("[SERVICE] source %s (%s): available = [%v]", src.SID, src.Name, available)
	}

	if invalid == true {
		log.Printf("exiting due to source config error(s) above")
		os.Exit(1)
	}
}

func (s *svcContext) validateConfig() {
	// ensure the existence and validity of required values

	invalid := false

	miscValues := stringValidator{}

	miscValues.requireValue(s.config.Service.Port, "service port")

	if miscValues.Invalid() == true {
		invalid = true
	}

	if invalid == true {
		log.Printf("exiting due to missing config value(s) above")
		os.Exit(1)
	}
}

// lookupRunner returns the prepared runner for a source key (SID or
// name) and format.
func (s *svcContext) lookupRunner(key string, format string) (sources.Runner, *sources.Source, error) {
	src, ok := sources.Lookup(key)
	if ok == false {
		return nil, nil, fmt.Errorf("unknown source: [%s]", key)
	}

	if format == "" {
		format = src.OutputExt
	}

	runner, ok := s.runners[runnerKey{sid: src.SID, format: format}]
	if ok == false {
		return nil, src, fmt.Errorf("source %s has no runner for format [%s]", src.SID, format)
	}

	return runner, src, nil
}

func initializeService(cfg *serviceConfig) *svcContext {
	s := svcContext{}

	s.config = cfg

	s.validateConfig()

	s.initVersion()
	s.initIdentity()
	s.initSources()

	return &s
}
