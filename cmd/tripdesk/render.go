package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"tripdesk/internal/bookings"
	"tripdesk/internal/gateway"
	"tripdesk/internal/normalize"
	"tripdesk/internal/notifications"
	"tripdesk/internal/search"
)

func loginFailure(err error) string {
	if msg := gateway.ServerMessage(err); msg != "" {
		return msg
	}
	return "Login failed"
}

func printFieldErrors(w io.Writer, verr *search.ValidationError) {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, verr.Fields[f])
	}
}

func printOffers(w io.Writer, offers []normalize.Offer) {
	if len(offers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if offers[0].Kind == normalize.KindHotel {
		fmt.Fprintln(tw, "ID\tHOTEL\tLOCATION\tPRICE\tROOMS")
		for _, o := range offers {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%d\n", o.ID, o.Name, o.Location, o.Price, o.Currency, o.AvailableSeats)
		}
	} else {
		fmt.Fprintln(tw, "ID\tROUTE\tDURATION\tSTOPS\tPRICE\tSEATS")
		for _, o := range offers {
			stops := "nonstop"
			if o.SegmentCount > 1 {
				stops = fmt.Sprintf("%d stops", o.SegmentCount-1)
				if o.SegmentCount == 2 {
					stops = "1 stop"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%d\n", o.ID, o.Route, o.Duration, stops, o.Price, o.Currency, o.AvailableSeats)
		}
	}
	_ = tw.Flush()
}

func printBookings(w io.Writer, view *bookings.View, f *bookings.Formatter) {
	counts := view.Counts()
	fmt.Fprintf(w, "Flights (%d)  Hotels (%d)\n\n", counts.Flights, counts.Hotels)

	tab := view.Tab()
	if view.IsEmpty(tab) {
		fmt.Fprintf(w, "You have no %s bookings yet.\n", strings.TrimSuffix(string(tab), "s"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if tab == bookings.TabHotels {
		fmt.Fprintln(tw, "HOTEL\tLOCATION\tCHECK-IN\tCHECK-OUT\tPRICE")
		for _, r := range view.Active() {
			h := r.Hotel
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", h.HotelName, h.Location,
				f.Date(string(h.CheckInDate)), f.Date(string(h.CheckOutDate)), h.Price)
		}
	} else {
		fmt.Fprintln(tw, "ROUTE\tAIRLINE\tDATE\tTIME\tPRICE")
		for _, r := range view.Active() {
			b := r.Flight
			fmt.Fprintf(tw, "%s → %s\t%s\t%s\t%s\t%s\n", b.Origin, b.Destination, b.Airline,
				f.Date(string(b.DepartureDate)), f.Time(string(b.DepartureDate)), b.Price)
		}
	}
	_ = tw.Flush()
}

func printSessionEvent(w io.Writer, ev *notifications.SessionEvent) {
	line := fmt.Sprintf("%s  %-7s %s -> %s  #%d", ev.OccurredAt.Format("15:04:05"), ev.Surface, ev.From, ev.To, ev.Token)
	if q := ev.QueryString(); q != "" {
		line += "  " + q
	}
	switch ev.To {
	case string(search.StatusSuccess):
		line += fmt.Sprintf("  (%d offers)", ev.OfferCount)
	case string(search.StatusError):
		line += "  " + ev.Error
	}
	fmt.Fprintln(w, line)
}
