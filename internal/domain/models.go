package domain

import "time"

// Prompt is a profile question/answer pair shown on cards.
type Prompt struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// User is the signed-in account's profile. Created on signup, mutated only
// by the owning user, persists across sessions.
type User struct {
	ID                  string   `json:"id"`
	Email               string   `json:"email"`
	Name                string   `json:"name"`
	Age                 int      `json:"age"`
	Bio                 string   `json:"bio"`
	Photos              []string `json:"photos"`
	Interests           []string `json:"interests"`
	Prompts             []Prompt `json:"prompts"`
	Location            string   `json:"location"`
	Distance            int      `json:"distance"`
	OnboardingCompleted bool     `json:"onboardingCompleted"`
}

// CandidateProfile is a profile offered in the discovery feed. Immutable once
// generated for a session; consumed exactly once by a swipe.
type CandidateProfile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Bio        string   `json:"bio"`
	Photos     []string `json:"photos"`
	Interests  []string `json:"interests"`
	Prompts    []Prompt `json:"prompts"`
	Location   string   `json:"location"`
	Distance   int      `json:"distance"`
	Online     bool     `json:"online"`
	LastActive string   `json:"lastActive"`
}

// SwipeAction distinguishes likes from passes on the undo stack.
type SwipeAction string

const (
	SwipeLiked  SwipeAction = "liked"
	SwipePassed SwipeAction = "passed"
)

// SwipeRecord holds the exact candidate snapshot so undo can restore it
// without regeneration.
type SwipeRecord struct {
	CandidateID string           `json:"id"`
	Profile     CandidateProfile `json:"profile"`
	Action      SwipeAction      `json:"action"`
}

// Match is a mutual-interest result. Never deleted.
type Match struct {
	ID          string           `json:"id"`
	MatchedAt   time.Time        `json:"matchedAt"`
	Candidate   CandidateProfile `json:"user"`
	MatchedUser User             `json:"matchedUser"`
}

// Chat is a conversation opened against a match.
type Chat struct {
	ID              string           `json:"id"`
	Profile         CandidateProfile `json:"matchedProfile"`
	LastMessage     string           `json:"lastMessage"`
	LastMessageTime *time.Time       `json:"lastMessageTime"`
	UnreadCount     int              `json:"unreadCount"`
}

// Sender identifies which side of a chat wrote a message.
type Sender string

const (
	SenderSelf        Sender = "me"
	SenderCounterpart Sender = "them"
)

// Message is one chat entry. Append-only per chat.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// NotificationType tags entries in the notification log.
type NotificationType string

const (
	NotificationMatch NotificationType = "match"
	NotificationCall  NotificationType = "call"
)

// Notification is an append-only log entry; only Read is ever mutated.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Moment is a short-lived story post by the signed-in user.
type Moment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserPhoto string    `json:"userPhoto"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"createdAt"`
	Views     int       `json:"views"`
}

// Preferences are the discovery filter settings.
type Preferences struct {
	AgeRange [2]int `json:"ageRange"`
	Distance int    `json:"distance"`
	Gender   string `json:"gender"`
}

// DefaultPreferences mirrors the filters a fresh install starts with.
func DefaultPreferences() Preferences {
	return Preferences{AgeRange: [2]int{18, 50}, Distance: 50, Gender: "all"}
}

// ProfileStats are the counters shown on the profile screen.
type ProfileStats struct {
	Likes        int `json:"likes"`
	Matches      int `json:"matches"`
	Messages     int `json:"messages"`
	ProfileViews int `json:"profileViews"`
}

// PremiumPlan is a static catalog entry.
type PremiumPlan struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	DurationDays int    `json:"duration"`
}

// Location is the best-effort position attached to a session.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}
