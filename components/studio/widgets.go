package studio

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-studio/pkg/export"
)

// Tone drives badge and card coloring.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
)

// Badge is a colored status pill.
type Badge struct {
	Label string
	Tone  Tone
	Class string
}

type badgeStyle struct {
	label string
	tone  Tone
}

var badgeStyles = map[string]badgeStyle{
	string(ContentDraft):       {"Draft", ToneNeutral},
	string(ContentPending):     {"Pending", ToneWarning},
	string(ContentReview):      {"In Review", ToneInfo},
	string(ContentApproved):    {"Approved", ToneSuccess},
	string(ContentPublished):   {"Published", ToneSuccess},
	string(ContentRejected):    {"Rejected", ToneDanger},
	string(ContentRevision):    {"Needs Revision", ToneWarning},
	string(RecordingScheduled): {"Scheduled", ToneInfo},
	string(RecordingActive):    {"Recording", ToneInfo},
	string(RecordingCompleted): {"Completed", ToneSuccess},
}

// StatusBadge styles any content, recording or comment status. Unknown
// statuses get a neutral badge labeled with the raw value.
func StatusBadge(status string) Badge {
	style, ok := badgeStyles[strings.ToLower(status)]
	if !ok {
		style = badgeStyle{label: status, tone: ToneNeutral}
		if status == "" {
			style.label = "Unknown"
		}
	}
	return Badge{
		Label: style.label,
		Tone:  style.tone,
		Class: "status-badge status-" + strcase.ToKebab(style.label) + " tone-" + string(style.tone),
	}
}

func (s ContentStatus) Badge() Badge   { return StatusBadge(string(s)) }
func (s RecordingStatus) Badge() Badge { return StatusBadge(string(s)) }

// CommentBadge reflects the moderation state of a comment.
func CommentBadge(c Comment) Badge {
	if c.Approved {
		return StatusBadge(string(ContentApproved))
	}
	return StatusBadge(string(ContentPending))
}

// StepState is the position of a tracker step relative to the current status.
type StepState string

const (
	StepDone     StepState = "done"
	StepCurrent  StepState = "current"
	StepUpcoming StepState = "upcoming"
)

type TrackerStep struct {
	Key   string
	Label string
	State StepState
	// Branch marks a terminal side exit such as rejected.
	Branch bool
}

// Tracker is a horizontal progress indicator.
type Tracker struct {
	Steps []TrackerStep
}

// Current returns the step in the current state.
func (t Tracker) Current() (TrackerStep, bool) {
	for _, step := range t.Steps {
		if step.State == StepCurrent {
			return step, true
		}
	}
	return TrackerStep{}, false
}

var contentPath = []ContentStatus{ContentDraft, ContentPending, ContentReview, ContentApproved, ContentPublished}

// ContentTracker lays out the editorial workflow. Rejected and revision
// branch off after review.
func ContentTracker(status ContentStatus) Tracker {
	keys := make([]string, len(contentPath))
	for i, s := range contentPath {
		keys[i] = string(s)
	}
	switch status {
	case ContentRejected, ContentRevision:
		return branchTracker(keys, string(ContentReview), string(status))
	}
	return linearTracker(keys, string(status))
}

var recordingPath = []RecordingStatus{RecordingPending, RecordingApproved, RecordingScheduled, RecordingActive, RecordingCompleted}

// RecordingTracker lays out the session workflow. Rejected branches off
// after pending.
func RecordingTracker(status RecordingStatus) Tracker {
	keys := make([]string, len(recordingPath))
	for i, s := range recordingPath {
		keys[i] = string(s)
	}
	if status == RecordingRejected {
		return branchTracker(keys, string(RecordingPending), string(status))
	}
	return linearTracker(keys, string(status))
}

func linearTracker(keys []string, current string) Tracker {
	idx := indexOf(keys, current)
	steps := make([]TrackerStep, len(keys))
	for i, key := range keys {
		state := StepUpcoming
		switch {
		case idx < 0:
		case i < idx:
			state = StepDone
		case i == idx:
			state = StepCurrent
		}
		steps[i] = TrackerStep{Key: key, Label: StatusBadge(key).Label, State: state}
	}
	return Tracker{Steps: steps}
}

func branchTracker(keys []string, after, branch string) Tracker {
	idx := indexOf(keys, after)
	steps := make([]TrackerStep, 0, idx+2)
	for _, key := range keys[:idx+1] {
		steps = append(steps, TrackerStep{Key: key, Label: StatusBadge(key).Label, State: StepDone})
	}
	steps = append(steps, TrackerStep{Key: branch, Label: StatusBadge(branch).Label, State: StepCurrent, Branch: true})
	return Tracker{Steps: steps}
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}

// StatCard is a headline number on the overview page.
type StatCard struct {
	Label string
	Value int
	Icon  string
	Href  string
	Tone  Tone
}

// Display formats the value with thousands separators.
func (c StatCard) Display() string {
	raw := strconv.Itoa(c.Value)
	neg := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")
	var b strings.Builder
	for i, r := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

type Column struct {
	Key   string
	Label string
}

type Row struct {
	ID    string
	Cells map[string]string
	Badge *Badge
}

// Cell returns the value of column key.
func (r Row) Cell(key string) string {
	return r.Cells[key]
}

// Table is a generic listing table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// Dataset flattens the table for export, keyed by column label.
func (t Table) Dataset() export.Dataset {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Label
	}
	rows := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make(map[string]string, len(t.Columns))
		for _, col := range t.Columns {
			record[col.Label] = row.Cells[col.Key]
		}
		rows[i] = record
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

const dateLayout = "Jan 2, 2006"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// PeopleTable lists bloggers, writers or vocalists.
func PeopleTable(people []Person) Table {
	table := Table{Columns: []Column{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "role", Label: "Role"},
		{Key: "location", Label: "Location"},
		{Key: "joined", Label: "Joined"},
	}}
	for _, p := range people {
		table.Rows = append(table.Rows, Row{ID: p.ID, Cells: map[string]string{
			"name":     p.Name,
			"email":    p.Email,
			"role":     string(p.Role),
			"location": p.Location(),
			"joined":   formatDate(p.CreatedAt),
		}})
	}
	return table
}

// ContentTable lists blogs and posts.
func ContentTable(items []ContentItem) Table {
	table := Table{Columns: []Column{
		{Key: "title", Label: "Title"},
		{Key: "author", Label: "Author"},
		{Key: "status", Label: "Status"},
		{Key: "tags", Label: "Tags"},
		{Key: "updated", Label: "Updated"},
	}}
	for _, item := range items {
		badge := item.Status.Badge()
		table.Rows = append(table.Rows, Row{ID: item.ID, Badge: &badge, Cells: map[string]string{
			"title":   item.Title,
			"author":  item.AuthorName,
			"status":  badge.Label,
			"tags":    strings.Join(item.Tags, ", "),
			"updated": formatDate(item.UpdatedAt),
		}})
	}
	return table
}

// CommentTable lists comments awaiting or past moderation.
func CommentTable(comments []Comment) Table {
	table := Table{Columns: []Column{
		{Key: "name", Label: "Name"},
		{Key: "email", Label: "Email"},
		{Key: "text", Label: "Comment"},
		{Key: "status", Label: "Status"},
		{Key: "created", Label: "Posted"},
	}}
	for _, c := range comments {
		badge := CommentBadge(c)
		table.Rows = append(table.Rows, Row{ID: c.ID, Badge: &badge, Cells: map[string]string{
			"name":    c.Name,
			"email":   c.Email,
			"text":    c.Text,
			"status":  badge.Label,
			"created": formatDate(c.CreatedAt),
		}})
	}
	return table
}

// RecordingTable lists recording requests.
func RecordingTable(requests []RecordingRequest) Table {
	table := Table{Columns: []Column{
		{Key: "title", Label: "Title"},
		{Key: "vocalist", Label: "Vocalist"},
		{Key: "type", Label: "Type"},
		{Key: "status", Label: "Status"},
		{Key: "location", Label: "Location"},
		{Key: "scheduled", Label: "Scheduled"},
	}}
	for _, r := range requests {
		badge := r.Status.Badge()
		scheduled := ""
		if r.ScheduledAt != nil {
			scheduled = r.ScheduledAt.Format("Jan 2, 2006 15:04")
		}
		table.Rows = append(table.Rows, Row{ID: r.ID, Badge: &badge, Cells: map[string]string{
			"title":     r.Title,
			"vocalist":  r.VocalistName,
			"type":      string(r.Type),
			"status":    badge.Label,
			"location":  r.Location,
			"scheduled": scheduled,
		}})
	}
	return table
}

// Section is one collapsible accordion panel.
type Section struct {
	ID    string
	Title string
	Body  string
}

// Accordion keeps at most one section open.
type Accordion struct {
	Sections []Section
	open     string
}

// Toggle opens id, or closes it when it is already open. Unknown ids are
// ignored.
func (a *Accordion) Toggle(id string) {
	if a.open == id {
		a.open = ""
		return
	}
	for _, s := range a.Sections {
		if s.ID == id {
			a.open = id
			return
		}
	}
}

func (a *Accordion) IsOpen(id string) bool { return id != "" && a.open == id }

// Open returns the open section id, empty when all are closed.
func (a *Accordion) Open() string { return a.open }

// Toggle is an on/off switch.
type Toggle struct {
	Name  string
	Label string
	On    bool
}

func (t *Toggle) Flip() { t.On = !t.On }

type Option struct {
	Value string
	Label string
}

// MultiSelect is an ordered option set with a membership toggle.
type MultiSelect struct {
	options  []Option
	selected map[string]bool
}

// NewMultiSelect builds a selector over options, preselecting selected.
func NewMultiSelect(options []Option, selected ...string) *MultiSelect {
	m := &MultiSelect{options: append([]Option(nil), options...), selected: map[string]bool{}}
	for _, v := range selected {
		m.Toggle(v)
	}
	return m
}

// Toggle flips membership of value and reports whether value is known.
func (m *MultiSelect) Toggle(value string) bool {
	if !m.known(value) {
		return false
	}
	if m.selected[value] {
		delete(m.selected, value)
	} else {
		m.selected[value] = true
	}
	return true
}

func (m *MultiSelect) IsSelected(value string) bool { return m.selected[value] }

// Selected returns the selected values in option order.
func (m *MultiSelect) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for _, opt := range m.options {
		if m.selected[opt.Value] {
			out = append(out, opt.Value)
		}
	}
	return out
}

func (m *MultiSelect) Options() []Option { return append([]Option(nil), m.options...) }

func (m *MultiSelect) known(value string) bool {
	for _, opt := range m.options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// UploadLimits bounds a file field. Empty allow-lists accept any type.
type UploadLimits struct {
	MaxBytes     int64
	AllowedTypes []string
	AllowedExt   []string
}

var (
	AvatarLimits = UploadLimits{
		MaxBytes:     5 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
		AllowedExt:   []string{".jpg", ".jpeg", ".png", ".webp"},
	}
	DemoLimits = UploadLimits{
		MaxBytes:     50 << 20,
		AllowedTypes: []string{"audio/mpeg", "audio/wav", "audio/x-wav", "audio/mp4"},
		AllowedExt:   []string{".mp3", ".wav", ".m4a"},
	}
)

// ValidateUpload rejects empty, oversized or disallowed files.
func ValidateUpload(limits UploadLimits, file Upload) error {
	if file.Filename == "" || file.Body == nil {
		return fmt.Errorf("%w: file is required", ErrValidation)
	}
	if file.Size <= 0 {
		return fmt.Errorf("%w: %s is empty", ErrValidation, file.Filename)
	}
	if limits.MaxBytes > 0 && file.Size > limits.MaxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, file.Filename, file.Size, limits.MaxBytes)
	}
	if len(limits.AllowedTypes) > 0 {
		contentType := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
		if !contains(limits.AllowedTypes, contentType) {
			return fmt.Errorf("%w: %s has type %q", ErrFileType, file.Filename, file.ContentType)
		}
	}
	if len(limits.AllowedExt) > 0 {
		ext := strings.ToLower(path.Ext(file.Filename))
		if !contains(limits.AllowedExt, ext) {
			return fmt.Errorf("%w: %s has extension %q", ErrFileType, file.Filename, ext)
		}
	}
	return nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

// Share is what the share button copies or hands to the share sheet.
type Share struct {
	URL  string
	Text string
}

// ShareContent builds the public link of a published item.
func ShareContent(baseURL string, item ContentItem) (Share, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Share{}, fmt.Errorf("%w: invalid share base url %q", ErrValidation, baseURL)
	}
	u.Path = path.Join("/", u.Path, "blogs", item.ID)
	text := item.Title
	if item.AuthorName != "" {
		text = fmt.Sprintf("%s by %s", item.Title, item.AuthorName)
	}
	return Share{URL: u.String(), Text: text}, nil
}
