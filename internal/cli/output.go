package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/pelada/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.AuthResponse:
		o.printAuth(v)
	case response.Me:
		o.printMe(v)
	case response.Profile:
		o.printProfile(v)
	case response.Athlete:
		o.printAthlete(v)
	case response.AthleteList:
		o.printAthleteList(v)
	case response.Stats:
		o.printStats(v)
	case response.Presence:
		o.printPresence(v)
	case response.Draw:
		o.printDraw(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printAuth(a response.AuthResponse) {
	fmt.Fprintf(o.w, "Logged in as %s (%s)\n", a.Email, a.UserID)
	fmt.Fprintf(o.w, "Session expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04"))
}

func (o *Output) printMe(m response.Me) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", m.Email, m.UserID)
	fmt.Fprintf(o.w, "Session expires: %s\n", m.ExpiresAt.Format("2006-01-02 15:04"))
	if m.Profile == nil {
		fmt.Fprintln(o.w, "Profile: not set")
		return
	}
	fmt.Fprintf(o.w, "Profile: %s, %s\n", m.Profile.Name, m.Profile.Position)
}

func (o *Output) printProfile(p response.Profile) {
	fmt.Fprintf(o.w, "Name: %s\n", p.Name)
	fmt.Fprintf(o.w, "Position: %s\n", p.Position)
	if p.PhotoURL != "" {
		fmt.Fprintf(o.w, "Photo: %s\n", p.PhotoURL)
	}
}

func (o *Output) printAthlete(a response.Athlete) {
	fmt.Fprintf(o.w, "Athlete: %s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(o.w, "Position: %s\n", a.Position)
	fmt.Fprintf(o.w, "Status: %s\n", a.Status)
	fmt.Fprintf(o.w, "Goals: %d  Assists: %d  Games: %d\n", a.Goals, a.Assists, a.GamesPlayed)
	if a.ConfirmedAt != nil {
		fmt.Fprintf(o.w, "Confirmed: %s\n", a.ConfirmedAt.Format("2006-01-02 15:04"))
	}
}

func (o *Output) printAthleteList(l response.AthleteList) {
	if l.Count == 0 {
		fmt.Fprintln(o.w, "No athletes")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSITION\tSTATUS")
	for _, a := range l.Athletes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Position, a.Status)
	}
	_ = tw.Flush()
	fmt.Fprintf(o.w, "%d athletes\n", l.Count)
}

func (o *Output) printStats(s response.Stats) {
	fmt.Fprintf(o.w, "Total: %d\n", s.Total)
	fmt.Fprintf(o.w, "Active: %d\n", s.Active)
	fmt.Fprintf(o.w, "Goalkeepers: %d\n", s.Goalkeepers)
	fmt.Fprintf(o.w, "Others: %d\n", s.Others)
}

func (o *Output) printPresence(p response.Presence) {
	if !p.Confirmed {
		fmt.Fprintln(o.w, "Not confirmed for the next match")
		return
	}
	fmt.Fprintln(o.w, "Confirmed for the next match")
	if p.Athlete != nil {
		fmt.Fprintf(o.w, "Playing as %s (%s)\n", p.Athlete.Name, p.Athlete.Position)
	}
}

func (o *Output) printDraw(d response.Draw) {
	fmt.Fprintf(o.w, "%d players in %d teams\n", d.PlayerCount, len(d.Teams))
	for _, t := range d.Teams {
		fmt.Fprintf(o.w, "\n%s (%d)\n", t.Name, len(t.Players))
		fmt.Fprintln(o.w, strings.Repeat("-", len(t.Name)))
		for _, p := range t.Players {
			fmt.Fprintf(o.w, "  %-12s %s\n", p.Position, p.Name)
		}
	}
}
