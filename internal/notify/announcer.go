package notify

import (
	"strings"
	"sync"
)

// DefaultAnnouncementTemplate is the speaker text played with the
// 5-minute warning. {{childName}} and {{guardianName}} are interpolated.
const DefaultAnnouncementTemplate = "{{childName}} y {{guardianName}}, les faltan 5 minutos. " +
	"Si desea seguir con la diversión, acérquese al puesto de información o ingreso para recargar más tiempo en el parque."

// VoiceSettings configure the synthesized speaker voice.
type VoiceSettings struct {
	VoiceName string  `json:"voice_name"`
	Rate      float64 `json:"rate"`
	Pitch     float64 `json:"pitch"`
}

// AnnouncementSettings bundle the template and voice parameters edited on
// the admin settings screen.
type AnnouncementSettings struct {
	Template string        `json:"template"`
	Voice    VoiceSettings `json:"voice"`
}

// Announcer holds the current announcement settings. Admin updates and
// poller reads run on different goroutines, hence the mutex.
type Announcer struct {
	mu       sync.RWMutex
	settings AnnouncementSettings
}

// NewAnnouncer returns an announcer with the original defaults.
func NewAnnouncer() *Announcer {
	return &Announcer{settings: AnnouncementSettings{
		Template: DefaultAnnouncementTemplate,
		Voice:    VoiceSettings{VoiceName: "es-ES-Standard-A", Rate: 0.9, Pitch: 1.0},
	}}
}

// Settings returns the current settings.
func (a *Announcer) Settings() AnnouncementSettings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// Update replaces the settings. An empty template keeps the current one.
func (a *Announcer) Update(s AnnouncementSettings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if strings.TrimSpace(s.Template) == "" {
		s.Template = a.settings.Template
	}
	a.settings = s
}

// Render interpolates the template for one visitor.
func (a *Announcer) Render(childName, guardianName string) string {
	a.mu.RLock()
	tpl := a.settings.Template
	a.mu.RUnlock()
	text := strings.ReplaceAll(tpl, "{{childName}}", childName)
	return strings.ReplaceAll(text, "{{guardianName}}", guardianName)
}
