package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tdsdash/internal/models"
)

var _ list.Item = applicationItem{}

// applicationItem wraps [models.Application] to implement [list.Item].
type applicationItem struct {
	app models.Application
}

func (i applicationItem) FilterValue() string { return i.app.Name }

func (i applicationItem) Title() string {
	return fmt.Sprintf("%s (#%d)", i.app.Name, i.app.ID)
}

func (i applicationItem) Description() string {
	parts := []string{}
	for _, p := range []string{i.app.Job, i.app.BuildType, i.app.DeployType, i.app.Arch} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if i.app.EnvSpecific {
		parts = append(parts, "env specific")
	}
	return strings.Join(parts, " • ")
}

func applicationItems(apps []models.Application) []list.Item {
	items := make([]list.Item, len(apps))
	for i, app := range apps {
		items[i] = applicationItem{app: app}
	}
	return items
}
