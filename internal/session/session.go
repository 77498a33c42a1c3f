package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rohmanhakim/nps-nearby/internal/extractor"
	"github.com/rohmanhakim/nps-nearby/pkg/failure"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	StatePrompt  = `Enter a state name (e.g. Michigan, michigan) or "exit": `
	DetailPrompt = `Choose the number for detail search or "exit" or "back": `

	msgBye          = "Bye!"
	msgBadState     = "[Error] Enter proper state name"
	msgInvalidInput = "[Error] Invalid input"

	rule = "----------------------------------------------"
)

// Explorer is what the session needs from the explorer package.
type Explorer interface {
	LookupState(ctx context.Context, name string) (string, bool, error)
	SitesForState(ctx context.Context, stateURL string) ([]extractor.Site, error)
	NearbyPlaces(ctx context.Context, site extractor.Site) ([]extractor.NearbyPlace, error)
}

// Session is the two level prompt loop: pick a state, then pick a site of
// that state to list the places around it.
//
// Recoverable errors are printed and the current prompt is repeated. Fatal
// errors end Run and are returned. End of input, or ctx being cancelled
// while a prompt waits, ends Run without error.
type Session struct {
	explorer Explorer
	in       io.Reader
	lines    <-chan string
	out      io.Writer
	title    cases.Caser
}

func NewSession(explorer Explorer, in io.Reader, out io.Writer) *Session {
	return &Session{
		explorer: explorer,
		in:       in,
		out:      out,
		title:    cases.Title(language.English),
	}
}

type outcome int

const (
	outcomeBack outcome = iota
	outcomeExit
)

func (s *Session) Run(ctx context.Context) error {
	if s.lines == nil {
		s.lines = readLines(s.in)
	}
	for {
		input, ok := s.ask(ctx, StatePrompt)
		if !ok {
			return nil
		}
		s.println("")

		if strings.EqualFold(input, "exit") {
			s.println(msgBye)
			return nil
		}
		if input == "" {
			s.println(msgBadState)
			continue
		}

		stateURL, found, err := s.explorer.LookupState(ctx, input)
		if err != nil {
			if fatal := s.report(err); fatal != nil {
				return fatal
			}
			continue
		}
		if !found {
			s.println(msgBadState)
			continue
		}

		sites, err := s.explorer.SitesForState(ctx, stateURL)
		if err != nil {
			if fatal := s.report(err); fatal != nil {
				return fatal
			}
			continue
		}
		s.printSites(input, sites)

		next, err := s.detailLoop(ctx, sites)
		if err != nil {
			return err
		}
		if next == outcomeExit {
			return nil
		}
	}
}

func (s *Session) detailLoop(ctx context.Context, sites []extractor.Site) (outcome, error) {
	for {
		input, ok := s.ask(ctx, DetailPrompt)
		if !ok {
			return outcomeExit, nil
		}

		switch strings.ToLower(input) {
		case "back":
			return outcomeBack, nil
		case "exit":
			s.println(msgBye)
			return outcomeExit, nil
		}

		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(sites) {
			s.println(msgInvalidInput)
			continue
		}

		site := sites[choice-1]
		places, err := s.explorer.NearbyPlaces(ctx, site)
		if err != nil {
			if fatal := s.report(err); fatal != nil {
				return outcomeExit, fatal
			}
			continue
		}
		s.printPlaces(site, places)
	}
}

// ask prompts and reads one trimmed line. It reports false at end of input
// or once ctx is done.
func (s *Session) ask(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	select {
	case <-ctx.Done():
		s.println("")
		return "", false
	case line, ok := <-s.lines:
		if !ok {
			s.println("")
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// readLines feeds the lines of in to the returned channel and closes it at
// end of input. A read blocked on a terminal cannot be interrupted, so the
// goroutine is left behind when the session ends first.
func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// report prints a recoverable error and swallows it, or hands back a fatal one.
func (s *Session) report(err error) error {
	if failure.IsRecoverable(err) {
		s.println("[Error] " + err.Error())
		return nil
	}
	return err
}

func (s *Session) printSites(input string, sites []extractor.Site) {
	s.println(rule)
	s.println("List of national sites in " + s.title.String(strings.ToLower(input)))
	s.println(rule)
	for i, site := range sites {
		s.println(fmt.Sprintf("[%d] %s", i+1, site.Info()))
	}
	s.println("")
}

func (s *Session) printPlaces(site extractor.Site, places []extractor.NearbyPlace) {
	s.println("")
	s.println(rule)
	s.println("Places near " + site.Name)
	s.println(rule)
	for _, place := range places {
		s.println(place.Info())
	}
	s.println("")
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}
