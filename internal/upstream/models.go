package upstream

// Entity payloads as served by the university-event backend. The backend is
// Mongo-backed, so identifiers arrive under "_id".

type Event struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       []string `json:"category"`
	Date           string   `json:"date"`
	StartTime      string   `json:"startTime"`
	EndTime        string   `json:"endTime"`
	Location       string   `json:"location"`
	MaxSeats       int      `json:"maxSeats"`
	SeatsAvailable int      `json:"seatsAvailable"`
	PosterImage    string   `json:"posterImage,omitempty"`
	// Status is one of "upcoming", "live" or "expired". Only live events
	// accept student registrations; the backend enforces that, the
	// gateway just passes the value through.
	Status string `json:"status"`
}

type GalleryItem struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
	Likes       int      `json:"likes"`
}

// GalleryCategories are the categories the backend accepts for gallery
// items. "all" is a client-side filter value only and is never sent.
var GalleryCategories = []string{"events", "projects", "academic", "community", "other"}

type RegistrationEvent struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	RegisteredTeams []Team `json:"registeredTeams"`
}

type Team struct {
	ID         string       `json:"_id"`
	TeamName   string       `json:"teamName"`
	TeamLeader *TeamLeader  `json:"teamLeader"`
	Members    []TeamMember `json:"members"`
}

type TeamLeader struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type TeamMember struct {
	FullName string `json:"fullName"`
	USN      string `json:"usn"`
}
