package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/fathima-sithara/chatdb-init/internal/bootstrap"
)

func withoutColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

func TestInitColors(t *testing.T) {
	original := color.NoColor
	defer func() { color.NoColor = original }()

	color.NoColor = false
	InitColors(false)
	assert.False(t, color.NoColor)

	InitColors(true)
	assert.True(t, color.NoColor)
}

func TestPrintResult(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	PrintResult(&buf, &bootstrap.Result{
		Database: "chatdb",
		Steps:    []string{"select_database", "create_collection_chats"},
		Duration: 1500 * time.Millisecond,
	})

	assert.Equal(t, "Bootstrap of chatdb\n"+
		"  ✓ select_database\n"+
		"  ✓ create_collection_chats\n"+
		"  2 step(s) in 1.5s\n", buf.String())
}

func TestPrintReport(t *testing.T) {
	withoutColor(t)

	tests := []struct {
		name   string
		report *bootstrap.Report
		want   string
		ok     bool
	}{
		{
			name: "all passed",
			report: &bootstrap.Report{Database: "chatdb", Checks: []bootstrap.Check{
				{Name: "collection chats", OK: true},
				{Name: "seed chat 1", OK: true, Detail: "1 document(s) with chat_id 1"},
			}},
			want: "Verification of chatdb\n" +
				"  ✓ collection chats\n" +
				"  ✓ seed chat 1\n" +
				"All 2 checks passed\n",
			ok: true,
		},
		{
			name: "failure with detail",
			report: &bootstrap.Report{Database: "chatdb", Checks: []bootstrap.Check{
				{Name: "collection chats", OK: true},
				{Name: "index participants_1", Detail: "no matching index on chats"},
				{Name: "latest message in chat 1"},
			}},
			want: "Verification of chatdb\n" +
				"  ✓ collection chats\n" +
				"  ✗ index participants_1: no matching index on chats\n" +
				"  ✗ latest message in chat 1\n" +
				"2 of 3 checks failed\n",
			ok: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ok := PrintReport(&buf, tt.report)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
