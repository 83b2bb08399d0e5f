// kaamctl is a small command line front end over the SDK, handy for poking
// the dev server without the mobile app. Credentials persist in a local
// sqlite file between invocations, the same way the app keeps them on device.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kaambuddy/internal/booking"
	"kaambuddy/internal/client"
	"kaambuddy/internal/config"
	"kaambuddy/internal/credstore"
	"kaambuddy/internal/database"
	"kaambuddy/internal/domain"
	"kaambuddy/internal/jobregistry"
	"kaambuddy/internal/notification"
	"kaambuddy/internal/session"
)

const usage = `usage: kaamctl <command> [args]

  register   -name -phone -type [-category] [-experience]
  login      -phone
  verify     -phone -otp
  whoami
  logout

  jobs       [-category] [-location]
  post-job   -title -budget [-description] [-category] [-location]
  my-jobs

  bookings
  apply      -job [-note]
  accept     -id
  reject     -id
  start      -id
  complete   -id
  cancel     -id

  notifications
  unread
`

type app struct {
	session  *session.Manager
	bookings *booking.Manager
	jobs     *jobregistry.Registry
	feed     *notification.Feed
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		fatal(err)
	}
	defer log.Sync()

	cfg, err := config.LoadClient()
	if err != nil {
		fatal(err)
	}

	db, err := database.Connect(cfg.CredentialsDSN)
	if err != nil {
		fatal(err)
	}
	creds, err := credstore.NewGormStore(db)
	if err != nil {
		fatal(err)
	}

	api := client.New(client.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.Timeout,
		RetryAttempts:  cfg.RetryAttempts,
		RetryBaseDelay: cfg.RetryBaseDelay,
	}, creds, log)

	a := &app{
		session:  session.NewManager(api, creds, log),
		bookings: booking.NewManager(api, log),
		jobs:     jobregistry.NewRegistry(api, log),
		feed:     notification.NewFeed(api, log),
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fatal(err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		name := fs.String("name", "", "full name")
		phone := fs.String("phone", "", "phone number")
		userType := fs.String("type", "customer", "customer or worker")
		category := fs.String("category", "", "work category (workers)")
		experience := fs.String("experience", "", "experience (workers)")
		fs.Parse(args)

		user, err := a.session.Register(ctx, client.RegisterRequest{
			Name:         *name,
			Phone:        *phone,
			UserType:     domain.UserType(*userType),
			WorkCategory: *category,
			Experience:   *experience,
		})
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s), now run: kaamctl login -phone %s\n", user.Name, user.UserType, user.Phone)
		return nil

	case "login":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		phone := fs.String("phone", "", "phone number")
		fs.Parse(args)

		msg, err := a.session.Login(ctx, *phone)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil

	case "verify":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		phone := fs.String("phone", "", "phone number")
		otp := fs.String("otp", "", "one time code")
		fs.Parse(args)

		user, err := a.session.VerifyOTP(ctx, *phone, *otp)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Name, user.UserType)
		return nil

	case "whoami":
		if err := a.session.CheckAuthStatus(ctx); err != nil {
			return err
		}
		user := a.session.CurrentUser()
		if user == nil {
			fmt.Println("not logged in")
			return nil
		}
		return dump(user)

	case "logout":
		a.session.Logout(ctx)
		fmt.Println("logged out")
		return nil

	case "jobs":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		category := fs.String("category", "", "filter by category")
		location := fs.String("location", "", "filter by location")
		fs.Parse(args)

		jobs, err := a.jobs.List(ctx, client.JobFilters{Category: *category, Location: *location})
		if err != nil {
			return err
		}
		return dump(jobs)

	case "post-job":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		title := fs.String("title", "", "job title")
		description := fs.String("description", "", "details")
		category := fs.String("category", "", "category")
		budget := fs.Float64("budget", 0, "budget")
		location := fs.String("location", "", "location")
		fs.Parse(args)

		job, err := a.jobs.Create(ctx, client.CreateJobRequest{
			Title:       *title,
			Description: *description,
			Category:    *category,
			Budget:      *budget,
			Location:    *location,
		})
		if err != nil {
			return err
		}
		return dump(job)

	case "my-jobs":
		jobs, err := a.jobs.RefreshMine(ctx)
		if err != nil {
			return err
		}
		return dump(jobs)

	case "bookings":
		bookings, err := a.bookings.Refresh(ctx)
		if err != nil {
			return err
		}
		return dump(bookings)

	case "apply":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		jobID := fs.String("job", "", "job id")
		note := fs.String("note", "", "note to the customer")
		fs.Parse(args)

		b, err := a.bookings.ApplyForJob(ctx, *jobID, *note)
		if err != nil {
			return err
		}
		return dump(b)

	case "accept", "reject", "start", "complete", "cancel":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		id := fs.String("id", "", "booking id")
		fs.Parse(args)

		var err error
		switch command {
		case "accept":
			err = a.bookings.Accept(ctx, *id)
		case "reject":
			err = a.bookings.Reject(ctx, *id)
		case "start":
			err = a.bookings.Start(ctx, *id)
		case "complete":
			err = a.bookings.Complete(ctx, *id)
		case "cancel":
			err = a.bookings.Cancel(ctx, *id)
		}
		if err != nil {
			return err
		}
		fmt.Printf("booking %s: %s\n", *id, command)
		return nil

	case "notifications":
		items, err := a.feed.Refresh(ctx)
		if err != nil {
			return err
		}
		return dump(items)

	case "unread":
		count, err := a.feed.RefreshUnread(ctx)
		if err != nil {
			return err
		}
		fmt.Println(count)
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
		return nil
	}
}

func dump(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "kaamctl:", err)
	os.Exit(1)
}
