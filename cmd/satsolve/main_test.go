package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunFindsSatisfyingAssignment(t *testing.T) {
	input := "p cnf 2 2\n1 2 0\n-1 2 0\n"
	var stdout, stderr bytes.Buffer

	code := run([]string{"-duration", "10s"}, strings.NewReader(input), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "s cnf 1 2 2\n")
}

func TestRunProvesUnsat(t *testing.T) {
	input := "p cnf 1 2\n1 0\n-1 0\n"
	var stdout, stderr bytes.Buffer

	code := run([]string{"-solver", "cdcl", "-duration", "10s"}, strings.NewReader(input), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "s cnf -1 1 2\n")
}

func TestRunRejectsUnknownSolver(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-solver", "bogus"}, strings.NewReader("p cnf 1 1\n1 0\n"), &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Warning:")
}

func TestRunRejectsMalformedInput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(nil, strings.NewReader("not a dimacs file"), &stdout, &stderr)

	assert.Equal(t, 2, code)
}
