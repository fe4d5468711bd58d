package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/dealsync/internal/cli"
	"github.com/dmitrijs2005/dealsync/internal/common"
	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/transport"
)

// Root runs the interactive command loop.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "dealsync (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "dealsync %s> ", a.cfg.UserID)
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Available commands: list, show <id>, add, delete <id>, note <id>, delnote <id> <note_id>, upload, sync, status, exit")
		case "list":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "add":
			a.add(ctx)
		case "delete":
			a.delete(ctx, args)
		case "note":
			a.note(ctx, args)
		case "delnote":
			a.delnote(ctx, args)
		case "upload":
			a.upload(ctx)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}

func (a *App) list(ctx context.Context) {
	all, err := a.dealService.List(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	if len(all) == 0 {
		fmt.Fprintln(a.out, "No deals.")
		return
	}
	for _, d := range all {
		fmt.Fprintf(a.out, "%s  %-30s owned_by=%s updated=%s notes=%d\n",
			d.ID, d.CompanyName(), d.OwnedBy, d.UpdatedOrCreated(), len(d.Notes))
	}
}

func (a *App) show(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return
	}
	d, err := a.dealService.Get(ctx, args[0])
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "id:         %s\n", d.ID)
	fmt.Fprintf(a.out, "company:    %s\n", d.CompanyName())
	fmt.Fprintf(a.out, "owned_by:   %s\n", d.OwnedBy)
	fmt.Fprintf(a.out, "created_at: %s\n", d.CreatedAt)
	fmt.Fprintf(a.out, "updated_at: %s\n", d.UpdatedAt)
	if d.DateWon != "" {
		fmt.Fprintf(a.out, "date_won:   %s\n", d.DateWon)
	}
	for key, v := range d.Fields {
		fmt.Fprintf(a.out, "%s: %v\n", key, v)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(a.out, "note [%s] %s: %s\n", n.Timestamp, n.Author, n.Text)
	}
}

func (a *App) add(ctx context.Context) {
	company, err := cli.GetSimpleText(a.reader, "Company name", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	status, err := cli.GetSimpleText(a.reader, "Status", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	d, err := a.dealService.Add(ctx, models.Deal{
		Fields: map[string]any{"customerName": company, "status": status},
	})
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Added deal %s\n", d.ID)
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return
	}
	if err := a.dealService.Delete(ctx, args[0]); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Deleted deal %s\n", args[0])
}

func (a *App) note(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: note <id>")
		return
	}
	text, err := cli.GetMultiline(a.reader, "Note text", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	n, err := a.dealService.AddNote(ctx, args[0], text)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Added note %s\n", n.ID)
}

func (a *App) delnote(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: delnote <id> <note_id>")
		return
	}
	if err := a.dealService.RemoveNote(ctx, args[0], args[1]); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Note removed")
}

func (a *App) upload(ctx context.Context) {
	local, err := a.dealService.List(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	stamped, err := a.orchestrator.UploadDeals(ctx, local)
	if err != nil {
		a.printErr(err)
		return
	}
	if err := a.dealRepo.Save(ctx, stamped); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Uploaded %d deals\n", len(stamped))
}

func (a *App) sync(ctx context.Context) {
	local, err := a.dealService.List(ctx)
	if err != nil {
		a.printErr(err)
		return
	}

	merged, report, err := a.orchestrator.DownloadAndMerge(ctx, local)
	if err != nil {
		a.printErr(err)
		return
	}
	if err := a.dealRepo.Save(ctx, merged); err != nil {
		a.printErr(err)
		return
	}

	fmt.Fprintf(a.out, "Processed %d files: %d new, %d updated, %d deleted\n",
		report.FilesProcessed, report.NewDeals, report.UpdatedDeals, report.DeletedDeals)
	for _, c := range report.Conflicts {
		fmt.Fprintf(a.out, "Conflict on %s (%s): local %s vs remote %s\n",
			c.DealID, c.Company, c.LocalUpdated, c.RemoteUpdated)
	}
	for _, msg := range report.Errors {
		fmt.Fprintf(a.out, "Error: %s\n", msg)
	}

	stamped, err := a.orchestrator.UploadDeals(ctx, merged)
	if err != nil {
		a.printErr(err)
		return
	}
	if err := a.dealRepo.Save(ctx, stamped); err != nil {
		a.printErr(err)
	}
}

func (a *App) status(ctx context.Context) {
	st, err := a.orchestrator.Status(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "configured:   %v\n", st.Configured)
	fmt.Fprintf(a.out, "user_id:      %s\n", st.UserID)
	fmt.Fprintf(a.out, "team_members: %s\n", strings.Join(st.TeamMembers, ", "))
	if st.LastSync != "" {
		fmt.Fprintf(a.out, "last_sync:    %s\n", st.LastSync)
	}
	for _, e := range st.History {
		fmt.Fprintf(a.out, "%s  %-8s %s (%d deals)\n", e.Timestamp, e.Action, e.Filename, e.DealCount)
	}
}

// printErr turns a failure into a message that tells the user what to fix:
// credentials, TLS configuration, network, or nothing transport-related at
// all.
func (a *App) printErr(err error) {
	switch {
	case errors.Is(err, transport.ErrAuth):
		fmt.Fprintln(a.out, "Authentication failed. Check the username and password in the configuration.")
	case errors.Is(err, transport.ErrTLSRequired):
		fmt.Fprintln(a.out, "The server requires TLS. Enable use_tls in the ftp_config section.")
	case errors.Is(err, transport.ErrTemporary):
		fmt.Fprintln(a.out, "The server is temporarily unavailable. Try again in a moment.")
	case errors.Is(err, transport.ErrConnection):
		fmt.Fprintln(a.out, "Could not reach the server. Check the host, port and network connection.")
	case errors.Is(err, common.ErrNotConfigured):
		fmt.Fprintln(a.out, "Sync is not configured. Set ftp_config (or s3_config) in the configuration file.")
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintf(a.out, "Not found: %v\n", err)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
