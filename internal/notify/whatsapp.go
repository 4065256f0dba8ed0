// Package notify builds the outbound guardian notifications (WhatsApp
// texts and speaker announcements) and dispatches them through the message
// broker.
package notify

import (
	"fmt"

	"github.com/parketr3s/parke-tres/internal/model"
)

// Message is an outbound WhatsApp text addressed to a guardian phone.
type Message struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// BuildTimeWarning renders the 5-minutes-remaining message.
func BuildTimeWarning(v model.Visitor, minutesLeft int) Message {
	body := fmt.Sprintf(`Hola %s!

El tiempo de %s en Parke tr3s está por terminar.

⏰ Quedan %d minutos restantes.

Si deseas extender el tiempo, acércate a recepción.

¡Gracias por visitarnos!`, v.Guardian.Name, v.Child.Name, minutesLeft)
	return Message{To: v.Guardian.Phone, Body: body}
}

// BuildTimeEnded renders the end-of-session message.
func BuildTimeEnded(v model.Visitor) Message {
	body := fmt.Sprintf(`Hola %s!

El tiempo de %s en Parke tr3s ha terminado.

Por favor, acércate a recoger a tu pequeño/a.

¡Esperamos que hayan disfrutado su visita!`, v.Guardian.Name, v.Child.Name)
	return Message{To: v.Guardian.Phone, Body: body}
}
