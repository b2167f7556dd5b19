package completion_helper

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestDefaultFlagComplete(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cli.Command{
		Name:   "check-branch",
		Writer: &buf,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "branch", Aliases: []string{"b"}},
			&cli.StringFlag{Name: "skip-branches"},
		},
	}

	DefaultFlagComplete(context.Background(), cmd)

	assert.Equal(t, "--branch\n-b\n--skip-branches\n", buf.String())
}
