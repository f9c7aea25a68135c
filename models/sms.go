package models

import "encoding/xml"

// IncomingSMS is the useful subset of Twilio's inbound webhook form fields.
type IncomingSMS struct {
	MessageSID string
	AccountSID string
	From       string
	To         string
	Body       string
}

// TwiMLResponse is the XML reply body Twilio expects from an SMS webhook.
type TwiMLResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}
