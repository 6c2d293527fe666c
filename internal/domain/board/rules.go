package board

// Rules toggles the variant details a game is played with. Json keys match the
// ones the rules form of the web client sends.
type Rules struct {
	CaptureBackwards   bool `json:"canPieceCaptureBackwards" bson:"capture_backwards"`
	FlyingKings        bool `json:"canKingMoveMoreThanOneStep" bson:"flying_kings"`
	CaptureAfterFarRow bool `json:"shouldPieceContinueCapturingAfterFarthestRow" bson:"capture_after_far_row"`
	MandatoryCapture   bool `json:"shouldCaptureWhenPossible" bson:"mandatory_capture"`
	MaximumCapture     bool `json:"shouldCaptureMaxPossible" bson:"maximum_capture"`
	DiscardCaptured    bool `json:"shouldDiscardCapturedPieceMomentarily" bson:"discard_captured"`
}

func DefaultRules() Rules {
	return Rules{
		CaptureBackwards:   true,
		FlyingKings:        true,
		CaptureAfterFarRow: false,
		MandatoryCapture:   true,
		MaximumCapture:     true,
		DiscardCaptured:    false,
	}
}
