package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"scriptgate/internal/diag"
	"scriptgate/internal/source"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

// SarifInput is the issues found in one script.
type SarifInput struct {
	File   *source.File
	Issues []diag.Issue
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
	Properties  map[string]string `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует issues в SARIF формат (v2.1.0)
func Sarif(w io.Writer, inputs []SarifInput, meta SarifRunMeta) error {
	rules := map[diag.Code]struct{}{}
	run := sarifRun{
		Results: []sarifResult{},
		Invocations: []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: true,
		}},
	}
	if meta.RulesVersion != "" {
		run.Properties = map[string]string{"rulesVersion": meta.RulesVersion}
	}

	for _, in := range inputs {
		uri := source.VirtualPath
		if in.File != nil {
			uri = in.File.Path
		}
		for _, is := range in.Issues {
			rules[is.Code] = struct{}{}
			region := sarifRegion{StartLine: max(is.Line, 1), StartColumn: max(is.Column, 1)}
			if in.File != nil && is.Primary.End > is.Primary.Start {
				start, end := in.File.Resolve(is.Primary)
				region = sarifRegion{StartLine: start.Line, StartColumn: start.Col, EndLine: end.Line, EndColumn: end.Col}
			}
			msg := is.Message
			if is.Hint != "" {
				msg += " (" + is.Hint + ")"
			}
			run.Results = append(run.Results, sarifResult{
				RuleID:  is.Code.ID(),
				Level:   sarifLevel(is.Severity),
				Message: sarifMessage{Text: msg},
				Locations: []sarifLocation{{PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: uri},
					Region:           region,
				}}},
			})
		}
	}

	codes := make([]diag.Code, 0, len(rules))
	for c := range rules {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	driver := sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion, Rules: make([]sarifRule, 0, len(codes))}
	for _, c := range codes {
		driver.Rules = append(driver.Rules, sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}})
	}
	run.Tool = sarifTool{Driver: driver}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}})
}
