package controllers

import (
	"encoding/xml"
	"log"
	"net/http"

	"supper_server/services"
)

// SMSController is the inbound webhook for the messaging gateway. The
// gateway posts Twilio-style form data and expects a TwiML reply in the
// same round trip.
type SMSController struct {
	ConfirmationService *services.ConfirmationService
}

// NewSMSController creates a new SMSController instance
func NewSMSController(confirmationService *services.ConfirmationService) *SMSController {
	return &SMSController{ConfirmationService: confirmationService}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// HandleInbound processes one inbound SMS reply
func (sc *SMSController) HandleInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	if from == "" || body == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	log.Printf("inbound SMS from %s: %q", from, body)

	reply, err := sc.ConfirmationService.HandleInboundMessage(r.Context(), from, body)
	if err != nil {
		log.Printf("inbound SMS handling failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeTwiML(w, reply)
}

// writeTwiML sends the webhook reply. An empty message produces an
// empty <Response/>, which tells the gateway not to text anything back.
func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml")
	w.Write([]byte(xml.Header))
	out, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		return
	}
	w.Write(out)
}
