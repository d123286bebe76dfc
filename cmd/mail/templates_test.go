package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := loadTemplates(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)

	assert.Len(t, templates, len(mailKinds))
	for kind := range mailKinds {
		assert.Contains(t, templates, kind)
		assert.NotEmpty(t, templates[kind].subject)
	}
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new_account_email.html"), []byte("{{.fullName}}"), 0o644))

	_, err := loadTemplates(dir)
	assert.Error(t, err)
}

func TestRenderLineupGenerated(t *testing.T) {
	templates, err := loadTemplates(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)

	duration := int32(240)
	routineID := int64(11)
	body, err := json.Marshal(domain.MailMessage{
		Type: "lineup_generated",
		To:   "director@example.com",
		Data: domain.LineupGeneratedMailData{
			FullName: "张导演",
			ShowName: "新年晚会",
			Slots: []domain.LineupSlot{
				{Position: 0, RoutineID: &routineID, Name: "开场舞", Duration: &duration},
				{Position: 1, IsIntermission: true, Name: "中场休息"},
			},
			Warnings: []string{"街舞: 指定位置超出节目单范围"},
		},
	})
	require.NoError(t, err)

	// 与 worker 一样先反序列化再渲染
	var msg domain.MailMessage
	require.NoError(t, json.Unmarshal(body, &msg))

	var buf bytes.Buffer
	require.NoError(t, templates[msg.Type].tmpl.Execute(&buf, msg.Data))

	html := buf.String()
	assert.Contains(t, html, "张导演")
	assert.Contains(t, html, "新年晚会")
	assert.Contains(t, html, "开场舞")
	assert.Contains(t, html, "<em>中场休息</em>")
	assert.Contains(t, html, "240")
	assert.Contains(t, html, "未知")
	assert.Contains(t, html, "街舞")
}
