package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/timeline"
)

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func displayDate(s string) string {
	if t, ok := timeline.ParseDate(s, time.Local); ok {
		return t.Format("2006-01-02")
	}
	if strings.TrimSpace(s) == "" {
		return "undated"
	}
	return s
}

// render prints the current view of the loaded memories and renumbers
// them for the next command.
func (a *App) render() error {
	v := a.memories.View(a.session.ViewState())

	noun := "memories"
	if v.Count == 1 {
		noun = "memory"
	}
	fmt.Fprintf(a.out, "%s: %d %s (filter: %s, sort: %s)\n", a.session.UserName(), v.Count, noun, v.State.Filter, v.State.Sort)

	a.shownMemories = a.shownMemories[:0]
	if len(v.Groups) == 0 {
		if v.Total == 0 {
			fmt.Fprintln(a.out, "No memories yet. Use 'add' to create one.")
		} else {
			fmt.Fprintln(a.out, "No memories match this view. Use 'clear' to reset it.")
		}
		return nil
	}

	for _, g := range v.Groups {
		if g.Year == timeline.UndatedYear {
			fmt.Fprintln(a.out, "== Undated ==")
		} else {
			fmt.Fprintf(a.out, "== %d ==\n", g.Year)
		}
		for _, m := range g.Memories {
			a.shownMemories = append(a.shownMemories, m.ID)
			fmt.Fprintf(a.out, "%3d. %s  %s @ %s\n", len(a.shownMemories), displayDate(m.Date), m.Title, m.Location)
		}
	}
	return nil
}

func (a *App) renderMemory(m models.Memory) {
	fmt.Fprintf(a.out, "%s\n", m.Title)
	fmt.Fprintf(a.out, "  date:     %s\n", displayDate(m.Date))
	fmt.Fprintf(a.out, "  location: %s\n", m.Location)
	if m.ImageURL != "" {
		fmt.Fprintf(a.out, "  image:    %s\n", m.ImageURL)
	}
	fmt.Fprintf(a.out, "  id:       %s\n", m.ID)
	if m.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", m.Description)
	}
}
