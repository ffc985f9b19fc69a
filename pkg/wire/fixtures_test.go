package wire

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type messageFixture struct {
	Name    string `yaml:"name"`
	Phase   string `yaml:"phase"`
	Payload string `yaml:"payload"`
	Type    string `yaml:"type"`
}

func (f messageFixture) payloadBytes(t *testing.T) []byte {
	t.Helper()
	fields := strings.Fields(f.Payload)
	out := make([]byte, 0, len(fields))
	for _, field := range fields {
		b, err := strconv.ParseUint(field, 16, 8)
		require.NoError(t, err)
		out = append(out, byte(b))
	}
	return out
}

func (f messageFixture) decodeContext(t *testing.T) DecodeContext {
	t.Helper()
	switch f.Phase {
	case "connection":
		return &LoginContext{}
	case "command":
		return &CommandContext{}
	case "prepare query":
		return &PrepareQueryContext{}
	default:
		t.Fatalf("fixture %q has unknown phase %q", f.Name, f.Phase)
		return nil
	}
}

func TestDecodeCapturedMessages(t *testing.T) {
	raw, err := os.ReadFile("testdata/messages.yaml")
	require.NoError(t, err)

	var fixtures []messageFixture
	require.NoError(t, yaml.Unmarshal(raw, &fixtures))
	require.NotEmpty(t, fixtures)

	for _, fixture := range fixtures {
		t.Run(fixture.Name, func(t *testing.T) {
			d := NewDecoder(nil)
			bundle, err := d.Decode(context.Background(), frame(1, fixture.payloadBytes(t)), newTestConn(), fixture.decodeContext(t))
			require.NoError(t, err)
			require.NotNil(t, bundle)
			require.Equal(t, fixture.Type, bundle.Header.Type)
		})
	}
}
