package service

import (
	"fmt"
	"strings"

	infdom "facegate/internal/services/inference/domain"
)

// Caption renders the alert text shared by every channel
func Caption(v infdom.Verdict, publicBaseURL string) string {
	reason := v.Reason
	if reason == "" {
		reason = "n/a"
	}
	savedAs := v.SavedAs
	if savedAs == "" {
		savedAs = "n/a"
	}
	return fmt.Sprintf(
		"🚨 Intruder alert!\nauthorized: false\nconfidence: %.3f\nreason: %s\nfile: %s\nlatest: %s",
		v.Score(), reason, savedAs, LatestURL(publicBaseURL),
	)
}

// LatestURL is where the owner can open the most recent frame
func LatestURL(base string) string {
	return strings.TrimRight(base, "/") + "/latest.jpg"
}
