package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"tripdesk/internal/bookings"
	"tripdesk/internal/normalize"
	"tripdesk/internal/notifications"
	"tripdesk/internal/search"
)

var (
	errUsage = errors.New("usage")
	// the failure was already shown as a notice
	errReported = errors.New("reported")
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":       {"sign in and store the bearer token", runLogin},
	"logout":      {"forget the stored token", runLogout},
	"whoami":      {"show the signed-in traveler", runWhoAmI},
	"flights":     {"search flight offers", runFlights},
	"hotels":      {"search hotel offers", runHotels},
	"bookings":    {"list your flight and hotel bookings", runBookings},
	"book-flight": {"search flights and book one offer", runBookFlight},
	"book-hotel":  {"search hotels and book one offer", runBookHotel},
	"watch":       {"follow search session events from Kafka", runWatch},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tripdesk <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
}

func parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *email == "" {
		fmt.Fprint(a.out, "Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		*email = strings.TrimSpace(line)
	}
	if *password == "" {
		fmt.Fprint(a.out, "Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		*password = string(pw)
	}

	session, err := a.account.Login(ctx, *email, *password)
	if err != nil {
		a.toaster.Error(ctx, "account", loginFailure(err))
		return err
	}

	who := *email
	if session.Claims != nil && session.Claims.Email != "" {
		who = session.Claims.Email
	}
	a.toaster.Success(ctx, "account", "Signed in as "+who)
	return nil
}

func runLogout(ctx context.Context, a *app, args []string) error {
	if err := a.account.Logout(ctx); err != nil {
		return err
	}
	a.toaster.Notify(ctx, notifications.Notice{Level: notifications.LevelInfo, Message: "Signed out", Source: "account"})
	return nil
}

func runWhoAmI(ctx context.Context, a *app, args []string) error {
	claims, err := a.account.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", claims.Email, claims.UserID)
	if claims.ExpiresAt != nil {
		fmt.Fprintf(a.out, "token expires %s %s\n",
			a.formatter.Date(claims.ExpiresAt.Time.Format("2006-01-02T15:04:05Z07:00")),
			a.formatter.Time(claims.ExpiresAt.Time.Format("2006-01-02T15:04:05Z07:00")))
	}
	return nil
}

func flightFlags(name string) (*flag.FlagSet, *search.FlightQuery) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	q := &search.FlightQuery{}
	fs.StringVar(&q.Origin, "origin", "", "origin airport code")
	fs.StringVar(&q.Destination, "destination", "", "destination airport code")
	fs.StringVar(&q.Date, "date", "", "departure date (YYYY-MM-DD)")
	fs.IntVar(&q.Adults, "adults", 1, "number of adult travelers")
	return fs, q
}

func hotelFlags(name string) (*flag.FlagSet, *search.HotelQuery) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	q := &search.HotelQuery{}
	fs.StringVar(&q.Location, "location", "", "city or area")
	fs.StringVar(&q.CheckIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	fs.StringVar(&q.CheckOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	fs.IntVar(&q.Guests, "guests", 1, "number of guests")
	return fs, q
}

// runSearch settles one query and prints its result. Validation problems are
// reported per field without issuing a request.
func runSearch(ctx context.Context, a *app, c *search.Controller, q search.Query) (search.State, error) {
	st, err := c.Search(ctx, q)
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			printFieldErrors(a.out, verr)
			return st, errUsage
		}
		return st, err
	}
	if st.Status != search.StatusSuccess {
		return st, errReported
	}
	printOffers(a.out, st.Offers)
	return st, nil
}

func runFlights(ctx context.Context, a *app, args []string) error {
	fs, q := flightFlags("flights")
	if err := parse(fs, args); err != nil {
		return err
	}
	_, err := runSearch(ctx, a, a.flights, *q)
	return err
}

func runHotels(ctx context.Context, a *app, args []string) error {
	fs, q := hotelFlags("hotels")
	if err := parse(fs, args); err != nil {
		return err
	}
	_, err := runSearch(ctx, a, a.hotels, *q)
	return err
}

func runBookings(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	tab := fs.String("tab", string(bookings.TabFlights), "tab to show: flights or hotels")
	if err := parse(fs, args); err != nil {
		return err
	}

	view, err := a.bookings.Load(ctx)
	if err != nil {
		return err
	}
	if err := view.Select(bookings.Tab(*tab)); err != nil {
		return err
	}
	printBookings(a.out, view, a.formatter)
	return nil
}

func pickOffer(offers []normalize.Offer, id string) (normalize.Offer, error) {
	for _, o := range offers {
		if o.ID == id {
			return o, nil
		}
	}
	return normalize.Offer{}, fmt.Errorf("no offer with id %q in the results", id)
}

func runBookFlight(ctx context.Context, a *app, args []string) error {
	fs, q := flightFlags("book-flight")
	offerID := fs.String("offer", "", "id of the offer to book")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *offerID == "" {
		fmt.Fprintln(os.Stderr, "-offer is required")
		return errUsage
	}

	st, err := runSearch(ctx, a, a.flights, *q)
	if err != nil {
		return err
	}
	offer, err := pickOffer(st.Offers, *offerID)
	if err != nil {
		return err
	}
	conf, err := a.booker.BookFlight(ctx, offer)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking reference: %s\n", conf.ID)
	return nil
}

func runBookHotel(ctx context.Context, a *app, args []string) error {
	fs, q := hotelFlags("book-hotel")
	offerID := fs.String("offer", "", "id of the offer to book")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *offerID == "" {
		fmt.Fprintln(os.Stderr, "-offer is required")
		return errUsage
	}

	st, err := runSearch(ctx, a, a.hotels, *q)
	if err != nil {
		return err
	}
	offer, err := pickOffer(st.Offers, *offerID)
	if err != nil {
		return err
	}
	conf, err := a.booker.BookHotel(ctx, offer)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking reference: %s\n", conf.ID)
	return nil
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fromStart := fs.Bool("from-start", false, "replay the topic from the oldest offset")
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg := notifications.DefaultConsumerConfig()
	cfg.Brokers = a.cfg.Kafka.Brokers
	cfg.GroupID = a.cfg.Kafka.GroupID
	cfg.Topics = []string{a.cfg.Kafka.Topic}
	cfg.OffsetOldest = *fromStart

	consumer, err := notifications.NewSessionEventConsumer(cfg, func(_ context.Context, ev *notifications.SessionEvent) error {
		printSessionEvent(a.out, ev)
		return nil
	}, a.logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	fmt.Fprintf(a.out, "watching %s (ctrl-c to stop)\n", a.cfg.Kafka.Topic)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
