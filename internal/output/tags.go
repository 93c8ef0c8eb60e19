package output

// PGN tag names written by the exporter.
const (
	TagEvent       = "Event"
	TagSite        = "Site"
	TagDate        = "Date"
	TagRound       = "Round"
	TagWhite       = "White"
	TagBlack       = "Black"
	TagResult      = "Result"
	TagSetUp       = "SetUp"
	TagFEN         = "FEN"
	TagTimeControl = "TimeControl"
	TagTermination = "Termination"
	TagPlyCount    = "PlyCount"
	TagUTCDate     = "UTCDate"
	TagUTCTime     = "UTCTime"
)

// SevenTagRoster contains the seven required PGN tags in order.
var SevenTagRoster = []string{
	TagEvent,
	TagSite,
	TagDate,
	TagRound,
	TagWhite,
	TagBlack,
	TagResult,
}

// IsSevenTagRosterTag returns true if the tag is one of the seven required tags.
func IsSevenTagRosterTag(tag string) bool {
	for _, t := range SevenTagRoster {
		if t == tag {
			return true
		}
	}
	return false
}
