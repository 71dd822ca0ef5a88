package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const (
	NewFollower = "new_follower"
	NewComment  = "new_comment"
)

// NotificationData is the data every notification template receives.
type NotificationData struct {
	RecipientName  string `json:"RecipientName"`
	RecipientEmail string `json:"RecipientEmail"`
	ActorName      string `json:"ActorName"`
	ActorUsername  string `json:"ActorUsername"`
	AppName        string `json:"AppName"`
	ActionURL      string `json:"ActionURL"`
	// Excerpt is the comment text for new_comment.
	Excerpt string `json:"Excerpt,omitempty"`
}

// ToMap converts NotificationData to a map[string]any for EmailJob.Data
func ToMap(d NotificationData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

var funcs = map[string]any{
	"upper": strings.ToUpper,
	"truncate": func(n int, s string) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "…"
	},
}

// Known reports whether name has a template set.
func Known(name string) bool {
	return name == NewFollower || name == NewComment
}

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var buf bytes.Buffer
	if isHTML {
		tpl, err := htmpl.New(filename).Funcs(htmpl.FuncMap(funcs)).ParseFS(FS, filename)
		if err != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, err)
		}
		if err := tpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("exec %q: %w", filename, err)
		}
		return buf.String(), nil
	}
	tpl, err := texttpl.New(filename).Funcs(texttpl.FuncMap(funcs)).ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse text %q: %w", filename, err)
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	if !Known(name) {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	if subject, err = renderFile(name+".subject.tmpl", false, data); err != nil {
		return "", "", "", err
	}
	if text, err = renderFile(name+".text.tmpl", false, data); err != nil {
		return "", "", "", err
	}
	if html, err = renderFile(name+".html.tmpl", true, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
