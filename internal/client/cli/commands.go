package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/memorylane/internal/client/client"
	"github.com/dmitrijs2005/memorylane/internal/client/services"
	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/models"
	"github.com/dmitrijs2005/memorylane/internal/netx"
	"github.com/dmitrijs2005/memorylane/internal/viewstate"
)

// resolve maps a 1-based position in the last listing to its id. Anything
// else is taken as an id.
func resolve(ref string, shown []string) string {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(shown) {
		return shown[n-1]
	}
	return ref
}

func (a *App) requireProfile() error {
	if !a.hasProfile() {
		return errNoProfile
	}
	return nil
}

func (a *App) Users(ctx context.Context, args []string) error {
	list, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No profiles yet.")
		return nil
	}

	a.shownUsers = a.shownUsers[:0]
	for i, u := range list {
		marker := " "
		if u.ID == a.session.UserID() {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s%d. %s (%d memories) [%s]\n", marker, i+1, u.Name, u.MemoryCount, u.ID)
		a.shownUsers = append(a.shownUsers, u.ID)
	}
	return nil
}

func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("select <n|id>")
	}

	u, err := a.users.Get(ctx, resolve(args[0], a.shownUsers))
	if err != nil {
		return err
	}

	a.session.Select(u)
	a.shownMemories = nil
	a.save(ctx)
	fmt.Fprintf(a.out, "Selected %s.\n", u.Name)

	if err := a.memories.Refresh(ctx, u.ID); err != nil {
		return err
	}
	return a.render()
}

func (a *App) WhoAmI(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s [%s]\n", a.session.UserName(), a.session.UserID())
	if q := a.session.Query(); q != "" {
		fmt.Fprintf(a.out, "view: ?%s\n", q)
	}
	return nil
}

func (a *App) Forget(ctx context.Context, args []string) error {
	a.session.Forget()
	a.shownMemories = nil
	a.save(ctx)
	fmt.Fprintln(a.out, "Profile forgotten.")
	return nil
}

// List renders the timeline, fetching the memories on first use.
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	if !a.memories.Loaded() {
		if err := a.memories.Refresh(ctx, a.session.UserID()); err != nil {
			return err
		}
	}
	return a.render()
}

func (a *App) navigate(ctx context.Context, query string) error {
	a.session.Navigate(query)
	a.save(ctx)
	return a.List(ctx, nil)
}

func (a *App) Filter(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usageError("filter <all|thisYear|lastYear>")
	}
	f, ok := viewstate.ParseFilter(args[0])
	if !ok {
		return usageError("filter <all|thisYear|lastYear>")
	}
	return a.navigate(ctx, viewstate.SetFilter(f, a.session.Query()))
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usageError("sort <newest|oldest>")
	}
	s, ok := viewstate.ParseSort(args[0])
	if !ok {
		return usageError("sort <newest|oldest>")
	}
	return a.navigate(ctx, viewstate.SetSort(s, a.session.Query()))
}

func (a *App) Clear(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	return a.navigate(ctx, viewstate.Clear(a.session.Query()))
}

func (a *App) Refresh(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	if err := a.memories.Refresh(ctx, a.session.UserID()); err != nil {
		return err
	}
	return a.render()
}

func (a *App) find(args []string, usage string) (models.Memory, error) {
	if len(args) != 1 {
		return models.Memory{}, usageError(usage)
	}
	m, ok := a.memories.Find(resolve(args[0], a.shownMemories))
	if !ok {
		return models.Memory{}, common.ErrorNotFound
	}
	return m, nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	m, err := a.find(args, "show <n|id>")
	if err != nil {
		return err
	}
	a.renderMemory(m)
	return nil
}

// withSecret prompts for the shared secret and wipes it after fn returns.
func (a *App) withSecret(fn func(secret string) error) error {
	pw, err := GetSecret(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	return fn(string(pw))
}

func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}

	var (
		in  client.NewMemory
		err error
	)
	if in.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.Date, err = GetTextWithDefault(a.reader, "Date (YYYY-MM-DD)", a.now().Format("2006-01-02"), a.out); err != nil {
		return err
	}
	if in.Location, err = GetSimpleText(a.reader, "Location (optional)", a.out); err != nil {
		return err
	}

	path, err := GetSimpleText(a.reader, "Image file or URL (optional)", a.out)
	if err != nil {
		return err
	}
	switch {
	case path == "":
	case isURL(path):
		in.ImageURL = path
	default:
		body, err := a.readFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		in.Image = &netx.File{Name: filepath.Base(path), Body: body}
	}

	var created models.Memory
	err = a.withSecret(func(secret string) error {
		var cerr error
		created, cerr = a.memories.Create(ctx, a.session.UserID(), secret, in)
		return cerr
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created %q.\n", created.Title)
	return a.render()
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	m, err := a.find(args, "edit <n|id>")
	if err != nil {
		return err
	}

	d := services.BeginEdit(m)
	prompts := []struct{ field, label, current string }{
		{services.FieldTitle, "Title", m.Title},
		{services.FieldDescription, "Description", m.Description},
		{services.FieldDate, "Date", m.Date},
		{services.FieldLocation, "Location", m.Location},
		{services.FieldImageURL, "Image URL", m.ImageURL},
	}
	for _, p := range prompts {
		value, err := GetTextWithDefault(a.reader, p.label, p.current, a.out)
		if err != nil {
			return err
		}
		if err := d.Set(p.field, value); err != nil {
			return err
		}
	}

	if !d.Dirty() {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	for {
		err := a.withSecret(func(secret string) error {
			_, err := d.Save(ctx, a.memories, secret)
			return err
		})
		if err == nil {
			break
		}
		if !Confirm(a.reader, fmt.Sprintf("Save failed: %s. Retry?", describe(err)), a.out) {
			d.Reset()
			fmt.Fprintln(a.out, "Changes discarded.")
			return nil
		}
	}

	fmt.Fprintf(a.out, "Updated %q.\n", d.Memory().Title)
	return a.render()
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.requireProfile(); err != nil {
		return err
	}
	m, err := a.find(args, "delete <n|id>")
	if err != nil {
		return err
	}

	if !Confirm(a.reader, fmt.Sprintf("Delete %q?", m.Title), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	err = a.withSecret(func(secret string) error {
		return a.memories.Delete(ctx, m.ID, secret)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted %q.\n", m.Title)
	return a.render()
}
