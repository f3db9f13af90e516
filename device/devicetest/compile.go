// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package devicetest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devblok/korufx/device"
)

var (
	mainFunction = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	localSize    = regexp.MustCompile(`layout\s*\([^)]*local_size_x`)
	errorLine    = regexp.MustCompile(`^\s*#error\b\s*(.*)$`)
)

// compile checks source the way a permissive driver front end would and
// returns the info log. An empty log means success.
func compile(stage device.ShaderStage, source string) string {
	lines := strings.Split(source, "\n")

	first := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			first = i
			break
		}
	}
	if first < 0 {
		return "0:1(1): error: empty shader source"
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[first]), "#version") {
		return fmt.Sprintf("0:%d(1): error: #version directive required as the first statement", first+1)
	}

	for i, line := range lines {
		if m := errorLine.FindStringSubmatch(line); m != nil {
			return fmt.Sprintf("0:%d(1): error: %s", i+1, m[1])
		}
	}

	var braces, parens int
	for i, line := range lines {
		for j, c := range line {
			switch c {
			case '{':
				braces++
			case '}':
				braces--
			case '(':
				parens++
			case ')':
				parens--
			}
			if braces < 0 || parens < 0 {
				return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected '%c'", i+1, j+1, c)
			}
		}
	}
	if braces != 0 || parens != 0 {
		return fmt.Sprintf("0:%d(1): error: syntax error, unexpected end of file", len(lines))
	}

	if !mainFunction.MatchString(source) {
		return "0:1(1): error: function `main' is not defined"
	}
	if stage == device.ComputeStage && !localSize.MatchString(source) {
		return "0:1(1): error: compute shader must declare a local work group size"
	}
	return ""
}

// link validates a set of attached shaders and returns the info log.
func link(shaders []*Shader) string {
	if len(shaders) == 0 {
		return "error: no shaders attached to the program"
	}
	stages := make(map[device.ShaderStage]bool)
	for _, sh := range shaders {
		if !sh.Compiled {
			return fmt.Sprintf("error: linking with uncompiled %s shader", sh.Stage)
		}
		stages[sh.Stage] = true
	}
	if stages[device.ComputeStage] && len(stages) > 1 {
		return "error: compute shader may not be linked with other stages"
	}
	if !stages[device.ComputeStage] && !stages[device.VertexStage] {
		return "error: program lacks a vertex shader"
	}
	return ""
}

// declaresUniform reports whether source declares a uniform called name.
func declaresUniform(source, name string) bool {
	pattern := `\buniform\b[^;]*\b` + regexp.QuoteMeta(name) + `\b`
	return regexp.MustCompile(pattern).MatchString(source)
}
