package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/target/ims-ui/internal/domain/model"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// readPassword takes the password from the flag, or the first line of stdin.
func readPassword(ctx *commandContext, fromFlag string) (string, error) {
	if fromFlag != "" {
		return fromFlag, nil
	}
	line, err := bufio.NewReader(ctx.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required (-password or stdin)")
	}
	return pw, nil
}

func runLogin(ctx *commandContext, args []string) error {
	fs := newFlagSet("login")
	var in model.LoginRequest
	var password string
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(in.Email) == "" {
		return errors.New("-email is required")
	}
	pw, err := readPassword(ctx, password)
	if err != nil {
		return err
	}
	in.Password = pw

	resp, err := ctx.API.Login(ctx.Ctx, in)
	if err != nil {
		return err
	}
	return writef(ctx.Out, "%s (role %s)\n", messageOr(resp, "Login successful."), resp.Role)
}

func runRegister(ctx *commandContext, args []string) error {
	fs := newFlagSet("register")
	var in model.RegisterRequest
	var password string
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&password, "password", "", "account password (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if in.Name == "" || in.Email == "" || in.PhoneNumber == "" {
		return errors.New("-name, -email and -phone are required")
	}
	pw, err := readPassword(ctx, password)
	if err != nil {
		return err
	}
	in.Password = pw

	resp, err := ctx.API.Register(ctx.Ctx, in)
	if err != nil {
		return err
	}
	return writef(ctx.Out, "%s (role %s)\n", messageOr(resp, "Registration successful."), resp.Role)
}

func runLogout(ctx *commandContext, _ []string) error {
	if err := ctx.Sessions.Logout(ctx.Ctx); err != nil {
		return err
	}
	return writef(ctx.Out, "Signed out.\n")
}

func runWhoami(ctx *commandContext, args []string) error {
	fs := newFlagSet("whoami")
	var out outputOptions
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx); err != nil {
		return err
	}
	user, err := ctx.API.GetCurrentUser(ctx.Ctx)
	if err != nil {
		return expireOn401(ctx, err)
	}
	return emit(ctx.Out, out, user, nil)
}

func runProducts(ctx *commandContext, args []string) error {
	fs := newFlagSet("products")
	var (
		out      outputOptions
		search   string
		category int64
	)
	out.register(fs)
	fs.StringVar(&search, "search", "", "free-text product search")
	fs.Int64Var(&category, "category", 0, "only products in this category ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx); err != nil {
		return err
	}

	var (
		resp *model.Response
		err  error
	)
	switch {
	case search != "":
		resp, err = ctx.API.SearchProducts(ctx.Ctx, search)
	case category > 0:
		resp, err = ctx.API.GetProductsByCategory(ctx.Ctx, category)
	default:
		resp, err = ctx.API.GetAllProducts(ctx.Ctx)
	}
	if err != nil {
		return expireOn401(ctx, err)
	}
	return emit(ctx.Out, out, resp, &productTable)
}

func runCategories(ctx *commandContext, args []string) error {
	fs := newFlagSet("categories")
	var out outputOptions
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx); err != nil {
		return err
	}
	resp, err := ctx.API.GetAllCategories(ctx.Ctx)
	if err != nil {
		return expireOn401(ctx, err)
	}
	return emit(ctx.Out, out, resp, &categoryTable)
}

func runSuppliers(ctx *commandContext, args []string) error {
	fs := newFlagSet("suppliers")
	var out outputOptions
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx); err != nil {
		return err
	}
	resp, err := ctx.API.GetAllSuppliers(ctx.Ctx)
	if err != nil {
		return expireOn401(ctx, err)
	}
	return emit(ctx.Out, out, resp, &supplierTable)
}

func runTransactions(ctx *commandContext, args []string) error {
	fs := newFlagSet("transactions")
	var (
		out        outputOptions
		filter     string
		start, end string
	)
	out.register(fs)
	fs.StringVar(&filter, "filter", "", "backend free-text filter")
	fs.StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (start == "") != (end == "") {
		return errors.New("-start and -end must be given together")
	}
	if err := requireSession(ctx); err != nil {
		return err
	}

	var (
		resp *model.Response
		err  error
	)
	if start != "" {
		from, perr := time.Parse(time.DateOnly, start)
		if perr != nil {
			return fmt.Errorf("-start: %w", perr)
		}
		to, perr := time.Parse(time.DateOnly, end)
		if perr != nil {
			return fmt.Errorf("-end: %w", perr)
		}
		resp, err = ctx.API.GetTransactionsBetweenDates(ctx.Ctx, from, to)
	} else {
		resp, err = ctx.API.GetAllTransactions(ctx.Ctx, filter)
	}
	if err != nil {
		return expireOn401(ctx, err)
	}
	return emit(ctx.Out, out, resp, &transactionTable)
}

func runRequests(ctx *commandContext, args []string) error {
	fs := newFlagSet("requests")
	var (
		out    outputOptions
		filter string
	)
	out.register(fs)
	fs.StringVar(&filter, "filter", "", "backend free-text filter (admins)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireSession(ctx); err != nil {
		return err
	}

	if ctx.Sessions.IsAdmin(ctx.Ctx) {
		resp, err := ctx.API.GetAllRequests(ctx.Ctx, filter)
		if err != nil {
			return expireOn401(ctx, err)
		}
		return emit(ctx.Out, out, resp, &requestTable)
	}

	user, err := ctx.API.GetCurrentUser(ctx.Ctx)
	if err != nil {
		return expireOn401(ctx, err)
	}
	resp, err := ctx.API.GetUserRequests(ctx.Ctx, user.ID)
	if err != nil {
		return expireOn401(ctx, err)
	}
	reqs := resp.Requests
	if resp.User != nil {
		reqs = resp.User.Requests
	}
	return emit(ctx.Out, out, model.Response{Status: resp.Status, Requests: reqs}, &requestTable)
}

func runTransactionStatus(ctx *commandContext, args []string) error {
	fs := newFlagSet("transaction-status")
	var (
		id     int64
		status string
	)
	fs.Int64Var(&id, "id", 0, "transaction ID")
	fs.StringVar(&status, "status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st := model.TransactionStatus(strings.ToUpper(strings.TrimSpace(status)))
	if id <= 0 || !slices.Contains(model.TransactionStatuses(), st) {
		return fmt.Errorf("-id and a -status of %v are required", model.TransactionStatuses())
	}
	if err := requireSession(ctx); err != nil {
		return err
	}
	resp, err := ctx.API.UpdateTransactionStatus(ctx.Ctx, id, st)
	if err != nil {
		return expireOn401(ctx, err)
	}
	return writef(ctx.Out, "%s\n", messageOr(resp, "Transaction status updated."))
}

func runRequestStatus(ctx *commandContext, args []string) error {
	fs := newFlagSet("request-status")
	var (
		id     int64
		status string
	)
	fs.Int64Var(&id, "id", 0, "request ID")
	fs.StringVar(&status, "status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	st := model.RequestStatus(strings.ToUpper(strings.TrimSpace(status)))
	if id <= 0 || !slices.Contains(model.RequestStatuses(), st) {
		return fmt.Errorf("-id and a -status of %v are required", model.RequestStatuses())
	}
	if err := requireSession(ctx); err != nil {
		return err
	}
	if !ctx.Sessions.IsAdmin(ctx.Ctx) {
		return errors.New("request status changes need an admin account")
	}
	resp, err := ctx.API.UpdateRequestStatus(ctx.Ctx, id, st)
	if err != nil {
		return expireOn401(ctx, err)
	}
	return writef(ctx.Out, "%s\n", messageOr(resp, "Request status updated."))
}

func messageOr(resp *model.Response, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
