package diag_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lmoonie/sat-solver/diag"
)

func TestCommentSuppressedAtSilent(t *testing.T) {
	var out, errOut strings.Builder
	d := diag.New(diag.Silent, &out, &errOut)
	d.Comment("worker %d started", 3)
	assert.Empty(t, out.String())
}

func TestCommentShownAtNormal(t *testing.T) {
	var out, errOut strings.Builder
	d := diag.New(diag.Normal, &out, &errOut)
	d.Comment("worker %d started", 3)
	assert.Equal(t, "c worker 3 started\n", out.String())
}

func TestDebugOnlyAtVerbose(t *testing.T) {
	var out, errOut strings.Builder
	d := diag.New(diag.Normal, &out, &errOut)
	d.Debugf("chatty detail")
	assert.Empty(t, out.String())

	d2 := diag.New(diag.Verbose, &out, &errOut)
	d2.Debugf("chatty detail")
	assert.Equal(t, "c chatty detail\n", out.String())
}

func TestWarningAlwaysEmitted(t *testing.T) {
	var out, errOut strings.Builder
	d := diag.New(diag.Silent, &out, &errOut)
	d.Warning("memory sample failed")
	assert.Equal(t, "Warning: memory sample failed\n", errOut.String())
}
