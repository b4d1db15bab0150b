package api

import (
	"time"

	"github.com/goliatone/go-studio/components/charts"
	"github.com/goliatone/go-studio/components/studio"
)

// DemoData returns the fixtures used when the server runs without a backend.
func DemoData(now time.Time) MockData {
	day := func(n int) time.Time { return now.AddDate(0, 0, -n).Truncate(time.Hour) }
	at := func(t time.Time) *time.Time { return &t }

	return MockData{
		People: []studio.Person{
			{ID: "admin-1", Name: "Studio Admin", Email: "admin@studio.test", Role: studio.RoleAdmin, CreatedAt: day(120)},
			{ID: "blogger-1", Name: "Maya Chen", Email: "maya@studio.test", Role: studio.RoleBlogger, City: "Vancouver", Country: "Canada", CreatedAt: day(90)},
			{ID: "blogger-2", Name: "Tomás Ruiz", Email: "tomas@studio.test", Role: studio.RoleBlogger, City: "Seville", Country: "Spain", CreatedAt: day(60)},
			{ID: "writer-1", Name: "Amara Obi", Email: "amara@studio.test", Role: studio.RoleWriter, City: "Lagos", Country: "Nigeria", CreatedAt: day(75)},
			{ID: "writer-2", Name: "Jonas Berg", Email: "jonas@studio.test", Role: studio.RoleWriter, Country: "Sweden", CreatedAt: day(30)},
			{ID: "vocalist-1", Name: "Lena Park", Email: "lena@studio.test", Role: studio.RoleVocalist, City: "Seoul", Country: "South Korea", CreatedAt: day(45)},
			{ID: "vocalist-2", Name: "Ravi Shah", Email: "ravi@studio.test", Role: studio.RoleVocalist, City: "Mumbai", Country: "India", CreatedAt: day(20)},
		},
		Content: []studio.ContentItem{
			{ID: "blog-1", Title: "Mixing vocals at home", Excerpt: "A small-room checklist.", Status: studio.ContentPublished, Tags: []string{"audio", "home-studio"}, AuthorID: "blogger-1", AuthorName: "Maya Chen", CreatedAt: day(14), UpdatedAt: day(12), PublishedAt: at(day(12))},
			{ID: "blog-2", Title: "Choosing a first microphone", Status: studio.ContentPending, Tags: []string{"gear"}, AuthorID: "blogger-1", AuthorName: "Maya Chen", CreatedAt: day(6), UpdatedAt: day(6)},
			{ID: "blog-3", Title: "Flamenco rhythm basics", Status: studio.ContentReview, Tags: []string{"rhythm"}, AuthorID: "blogger-2", AuthorName: "Tomás Ruiz", CreatedAt: day(4), UpdatedAt: day(3)},
			{ID: "post-1", Title: "Writing lyrics that breathe", Status: studio.ContentApproved, Tags: []string{"lyrics"}, AuthorID: "writer-1", AuthorName: "Amara Obi", CreatedAt: day(9), UpdatedAt: day(2)},
			{ID: "post-2", Title: "On silence", Status: studio.ContentRevision, AuthorID: "writer-2", AuthorName: "Jonas Berg", CreatedAt: day(3), UpdatedAt: day(1)},
			{ID: "post-3", Title: "Draft notes", Status: studio.ContentDraft, AuthorID: "writer-1", AuthorName: "Amara Obi", CreatedAt: day(1), UpdatedAt: day(1)},
		},
		Comments: []studio.Comment{
			{ID: "comment-1", ContentID: "blog-1", Name: "Sam", Email: "sam@example.com", Text: "The checklist saved my takes.", Approved: true, CreatedAt: day(11)},
			{ID: "comment-2", ContentID: "blog-1", Name: "Ines", Email: "ines@example.com", Text: "Which acoustic panels do you use?", CreatedAt: day(2)},
			{ID: "comment-3", ContentID: "post-1", Name: "Kofi", Email: "kofi@example.com", Text: "Beautiful piece.", CreatedAt: day(1)},
		},
		Recordings: []studio.RecordingRequest{
			{ID: "recording-1", VocalistID: "vocalist-1", VocalistName: "Lena Park", Title: "Single: Night Bus", Type: studio.RecordingStudio, Status: studio.RecordingScheduled, ScheduledAt: at(now.AddDate(0, 0, 5).Truncate(time.Hour)), Location: "Room A", Equipment: []string{"U87", "Neve 1073"}, CreatedAt: day(8)},
			{ID: "recording-2", VocalistID: "vocalist-2", VocalistName: "Ravi Shah", Title: "Demo harmonies", Type: studio.RecordingRemote, Status: studio.RecordingPending, CreatedAt: day(2)},
			{ID: "recording-3", VocalistID: "vocalist-1", VocalistName: "Lena Park", Title: "Podcast intro", Type: studio.RecordingRemote, Status: studio.RecordingCompleted, CreatedAt: day(30)},
		},
		Analytics: map[string]studio.AnalyticsReport{
			"views": {Metric: "views", Range: "7d", Total: 2140, Points: []charts.Datum{
				{Label: "Mon", Value: 210}, {Label: "Tue", Value: 340}, {Label: "Wed", Value: 280},
				{Label: "Thu", Value: 390}, {Label: "Fri", Value: 420}, {Label: "Sat", Value: 260}, {Label: "Sun", Value: 240},
			}},
		},
		Viewers: map[studio.Role]string{
			studio.RoleAdmin:    "admin-1",
			studio.RoleBlogger:  "blogger-1",
			studio.RoleWriter:   "writer-1",
			studio.RoleVocalist: "vocalist-1",
		},
	}
}
