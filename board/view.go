package board

import "github.com/mergington/activityboard/clients/activityclient"

// View is an immutable snapshot of the board's UI state.
type View struct {
	Cards      []Card         `json:"cards"`
	Options    []SelectOption `json:"options"`
	Loaded     bool           `json:"loaded"`
	LoadFailed bool           `json:"load_failed"`
	Message    Message        `json:"message"`
	Form       Form           `json:"form"`
}

// Card is the rendered form of one activity.
type Card struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Schedule        string        `json:"schedule"`
	MaxParticipants int           `json:"max_participants"`
	AvailableSpots  int           `json:"available_spots"`
	Participants    []Participant `json:"participants"`
}

// Participant is one row of a card's participant list. Activity and Email
// identify the row for its delete control.
type Participant struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// SelectOption is one entry of the activity selector.
type SelectOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Message is the shared message area.
type Message struct {
	ID     string `json:"id,omitempty"`
	Text   string `json:"text"`
	Class  string `json:"class"`
	Hidden bool   `json:"hidden"`
}

// CSSClass returns the class attribute of the message area.
func (m Message) CSSClass() string {
	switch {
	case !m.Hidden:
		return m.Class
	case m.Class == "":
		return "hidden"
	default:
		return m.Class + " hidden"
	}
}

// Form holds the values of the sign-up form.
type Form struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// ListText returns the static text shown in place of the cards, or "" when
// the cards are shown.
func (v View) ListText() string {
	switch {
	case !v.Loaded:
		return LoadingText
	case v.LoadFailed:
		return LoadFailedText
	default:
		return ""
	}
}

func newView(activities activityclient.Activities, loaded, loadFailed bool, msg Message, form Form) View {
	cards := make([]Card, 0, len(activities))
	options := make([]SelectOption, 0, len(activities)+1)
	options = append(options, SelectOption{Value: "", Label: PlaceholderOption, Selected: form.Activity == ""})

	for _, a := range activities {
		participants := make([]Participant, len(a.Participants))
		for i, email := range a.Participants {
			participants[i] = Participant{Activity: a.Name, Email: email}
		}
		cards = append(cards, Card{
			Name:            a.Name,
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			AvailableSpots:  a.AvailableSpots(),
			Participants:    participants,
		})
		options = append(options, SelectOption{
			Value:    a.Name,
			Label:    a.Name,
			Selected: form.Activity != "" && form.Activity == a.Name,
		})
	}

	return View{
		Cards:      cards,
		Options:    options,
		Loaded:     loaded,
		LoadFailed: loadFailed,
		Message:    msg,
		Form:       form,
	}
}
