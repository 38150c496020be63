// Package guard screens shell commands against a blocklist of destructive
// operations before they are dispatched to the sandbox.
package guard

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ErrBlocked is returned for commands matching the blocklist.
var ErrBlocked = errors.New("command blocked")

// Violation describes why a command was blocked.
type Violation struct {
	Rule    string
	Segment string
	Reason  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrBlocked, v.Reason, v.Rule)
}

func (v *Violation) Unwrap() error { return ErrBlocked }

// segmentRule inspects one simple command: argv[0] with wrappers removed.
type segmentRule struct {
	name   string
	reason string
	check  func(argv []string) bool
}

// textRule inspects the whole command line.
type textRule struct {
	name   string
	reason string
	check  func(cmd string) bool
}

var segmentRules = []segmentRule{
	{"recursive-delete", "recursive delete of the filesystem root or home directory", recursiveDelete},
	{"raw-disk-write", "raw write to a block device", ddToDevice},
	{"mkfs", "formatting a filesystem", func(argv []string) bool { return strings.HasPrefix(argv[0], "mkfs") }},
	{"recursive-permissions", "recursive permission change on the filesystem root", recursivePermissions},
}

var (
	deviceRedirect = regexp.MustCompile(`>\s*/dev/(?:sd|hd|vd|xvd|nvme|mmcblk|disk)\w*`)
	forkBomb       = regexp.MustCompile(`(\w+|:)\(\)\{(\w+|:)\|(\w+|:)&\};(\w+|:)`)
)

var textRules = []textRule{
	{"raw-disk-write", "redirect into a block device", deviceRedirect.MatchString},
	{"fork-bomb", "fork bomb", isForkBomb},
}

// maxNesting ограничивает рекурсию по "sh -c" и eval.
const maxNesting = 4

// Check returns a *Violation (matching ErrBlocked) if cmd is dangerous.
// Scripts passed to "sh -c" style shells and eval are checked as well.
func Check(cmd string) error {
	return check(cmd, 0)
}

func check(cmd string, depth int) error {
	for _, r := range textRules {
		if r.check(cmd) {
			return &Violation{Rule: r.name, Segment: strings.TrimSpace(cmd), Reason: r.reason}
		}
	}
	for _, seg := range segments(cmd) {
		argv := unwrap(words(seg))
		if len(argv) == 0 {
			continue
		}
		argv[0] = path.Base(argv[0])
		for _, r := range segmentRules {
			if r.check(argv) {
				return &Violation{Rule: r.name, Segment: seg, Reason: r.reason}
			}
		}
		if inner, ok := nestedScript(argv); ok && depth < maxNesting {
			if err := check(inner, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

var shells = map[string]bool{"sh": true, "bash": true, "zsh": true, "dash": true, "ksh": true, "ash": true}

// nestedScript извлекает строку, которую исполнит "sh -c ..." или eval.
func nestedScript(argv []string) (string, bool) {
	switch {
	case argv[0] == "eval":
		if len(argv) < 2 {
			return "", false
		}
		return strings.Join(argv[1:], " "), true
	case shells[argv[0]]:
		sawC := false
		for _, a := range argv[1:] {
			switch {
			case strings.HasPrefix(a, "--"):
			case len(a) > 1 && (a[0] == '-' || a[0] == '+'):
				if a[0] == '-' && strings.ContainsRune(a[1:], 'c') {
					sawC = true
				}
			default:
				return a, sawC
			}
		}
	}
	return "", false
}

var separators = regexp.MustCompile(`&&|\|\||[;|&\n]|\$\(|` + "`")

// segments splits a command line into simple commands.
func segments(cmd string) []string {
	parts := separators.Split(cmd, -1)
	out := parts[:0]
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), "()")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// valueOptions перечисляет опции обёрток, которые забирают следующий аргумент.
var valueOptions = map[string]map[string]bool{
	"sudo":  {"-u": true, "-g": true, "-h": true, "-p": true, "-C": true, "-D": true, "-r": true, "-t": true, "-T": true, "-U": true},
	"doas":  {"-u": true, "-C": true},
	"env":   {"-u": true, "-C": true, "-S": true},
	"nice":  {"-n": true},
	"xargs": {"-I": true, "-n": true, "-P": true, "-d": true, "-a": true, "-E": true, "-L": true, "-s": true},
}

// unwrap drops sudo/env/nice style prefixes and leading VAR=value assignments.
func unwrap(argv []string) []string {
	for len(argv) > 0 {
		head := path.Base(argv[0])
		switch {
		case head == "sudo" || head == "doas" || head == "command" || head == "exec" ||
			head == "nohup" || head == "nice" || head == "time" || head == "env" || head == "xargs":
			argv = argv[1:]
			for len(argv) > 0 && strings.HasPrefix(argv[0], "-") {
				opt := argv[0]
				argv = argv[1:]
				if valueOptions[head][opt] && len(argv) > 0 {
					argv = argv[1:]
				}
			}
		case strings.Contains(argv[0], "=") && !strings.HasPrefix(argv[0], "-"):
			argv = argv[1:]
		default:
			return argv
		}
	}
	return argv
}

// words splits a simple command into arguments with shell quoting removed.
// An unterminated quote runs to the end of the segment.
func words(seg string) []string {
	var (
		out   []string
		cur   strings.Builder
		inArg bool
		quote byte
	)
	for i := 0; i < len(seg); i++ {
		ch := seg[i]
		switch {
		case quote == '\'':
			if ch == '\'' {
				quote = 0
				continue
			}
			cur.WriteByte(ch)
		case quote == '"':
			switch {
			case ch == '"':
				quote = 0
			case ch == '\\' && i+1 < len(seg) && strings.IndexByte("\"\\$`", seg[i+1]) >= 0:
				i++
				cur.WriteByte(seg[i])
			default:
				cur.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inArg = true
		case ch == '\\':
			inArg = true
			if i+1 < len(seg) {
				i++
				cur.WriteByte(seg[i])
			}
		case ch == ' ' || ch == '\t' || ch == '\r':
			if inArg {
				out = append(out, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			inArg = true
			cur.WriteByte(ch)
		}
	}
	if inArg {
		out = append(out, cur.String())
	}
	return out
}

func hasRecursiveFlag(args []string) bool {
	for _, a := range args {
		switch {
		case a == "--recursive":
			return true
		case strings.HasPrefix(a, "--"):
		case strings.HasPrefix(a, "-") && strings.ContainsAny(a, "rR"):
			return true
		}
	}
	return false
}

func isRootTarget(a string) bool {
	a = strings.Trim(a, `"'`)
	switch a {
	case "/", "/*", "/.", "//", "~", "~/", "~/*", "$HOME", "${HOME}", "$HOME/", "$HOME/*", "${HOME}/*":
		return true
	}
	return false
}

func recursiveDelete(argv []string) bool {
	if argv[0] != "rm" {
		return false
	}
	args := argv[1:]
	for _, a := range args {
		if a == "--no-preserve-root" {
			return true
		}
	}
	if !hasRecursiveFlag(args) {
		return false
	}
	for _, a := range args {
		if isRootTarget(a) {
			return true
		}
	}
	return false
}

func ddToDevice(argv []string) bool {
	if argv[0] != "dd" {
		return false
	}
	for _, a := range argv[1:] {
		if strings.HasPrefix(strings.Trim(a, `"'`), "of=/dev/") && !strings.HasPrefix(a, "of=/dev/null") {
			return true
		}
	}
	return false
}

func recursivePermissions(argv []string) bool {
	switch argv[0] {
	case "chmod", "chown", "chgrp":
	default:
		return false
	}
	args := argv[1:]
	if !hasRecursiveFlag(args) {
		return false
	}
	for _, a := range args {
		if a = strings.Trim(a, `"'`); a == "/" || a == "/*" {
			return true
		}
	}
	return false
}

func isForkBomb(cmd string) bool {
	compact := strings.Join(strings.Fields(cmd), "")
	m := forkBomb.FindStringSubmatch(compact)
	if m == nil {
		return false
	}
	// одно и то же имя во всех четырёх позициях
	return m[1] == m[2] && m[2] == m[3] && m[3] == m[4]
}
