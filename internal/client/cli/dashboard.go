package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
)

func (a *App) Stats(ctx context.Context, _ []string) error {
	s, err := a.admin.Stats(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintf(w, "Total users\t%d\n", s.TotalUsers)
	fmt.Fprintf(w, "Total magnets\t%d\n", s.TotalMagnets)
	fmt.Fprintf(w, "Completed magnets\t%d\n", s.CompletedMagnets)
	fmt.Fprintf(w, "Awaiting magnets\t%d\n", s.AwaitingMagnets)
	return w.Flush()
}

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := a.admin.Users(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tJOINED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, orDash(u.Name), orDash(u.Role), formatTime(u.CreatedAt))
	}
	return w.Flush()
}

func (a *App) Referral(ctx context.Context, args []string) error {
	slug := ""
	if len(args) > 1 {
		slug = args[1]
	}
	link, err := a.admin.CreateReferral(ctx, models.ID(args[0]), slug)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, link)
	return nil
}

func (a *App) Reports(ctx context.Context, _ []string) error {
	reports, err := a.admin.Reports(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tUSER\tSTATUS\tCREATED")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, orDash(r.UserName), orDash(r.Status), formatTime(r.CreatedAt))
	}
	return w.Flush()
}

// parsePage reads an optional 1-based page argument.
func parsePage(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", args[0])
	}
	return n, nil
}

func (a *App) printPager(page, total int, next string) {
	fmt.Fprintf(a.out, "Page %d of %d\n", page, total)
	if page < total {
		fmt.Fprintf(a.out, "More: %s\n", next)
	}
}

func (a *App) Deliveries(ctx context.Context, args []string) error {
	page, err := parsePage(args)
	if err != nil {
		return err
	}
	p, err := a.admin.Deliveries(ctx, page)
	if err != nil {
		return err
	}
	if len(p.Deliveries) == 0 {
		fmt.Fprintln(a.out, "No deliveries.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tBUYER\tEMAIL\tPRODUCT\tDELIVERED\tTHANK-YOU")
	for _, d := range p.Deliveries {
		sent := "no"
		if d.ThankYouSent {
			sent = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, orDash(d.BuyerName), orDash(d.BuyerEmail), orDash(d.ProductName), formatTime(d.DeliveredAt), sent)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	a.printPager(p.Page, p.TotalPages, fmt.Sprintf("deliveries %d", p.Page+1))
	return nil
}

func (a *App) Employees(ctx context.Context, _ []string) error {
	employees, err := a.admin.ReferralEmployees(ctx)
	if err != nil {
		return err
	}
	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, e := range employees {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, orDash(e.Name), orDash(e.Email))
	}
	return w.Flush()
}

func (a *App) Referrals(ctx context.Context, args []string) error {
	page, err := parsePage(args)
	if err != nil {
		return err
	}
	var employee models.ID
	if len(args) > 1 {
		employee = models.ID(args[1])
	}
	p, err := a.admin.Referrals(ctx, page, employee)
	if err != nil {
		return err
	}
	if len(p.Referrals) == 0 {
		fmt.Fprintln(a.out, "No referrals.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tEMPLOYEE\tREFERRED\tUSER\tCREATED")
	for _, r := range p.Referrals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.EmployeeName, orDash(r.ReferredEmail), orDash(r.ReferredUserName), formatTime(r.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	next := fmt.Sprintf("referrals %d", p.Page+1)
	if !employee.IsZero() {
		next += " " + employee.String()
	}
	a.printPager(p.Page, p.TotalPages, next)
	return nil
}
