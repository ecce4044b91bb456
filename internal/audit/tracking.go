package audit

import (
	"bufio"
	"strconv"
	"strings"
)

const (
	branchHeaderPrefixConstant      = "## "
	trackingSeparatorConstant       = "..."
	trackingSegmentOpenConstant     = " ["
	trackingSegmentCloseConstant    = "]"
	trackingEntrySeparatorConstant  = ", "
	trackingAheadKeywordConstant    = "ahead"
	trackingBehindKeywordConstant   = "behind"
	trackingGoneKeywordConstant     = "gone"
	noCommitsYetPrefixConstant      = "No commits yet on "
	initialCommitPrefixConstant     = "Initial commit on "
	detachedHeadDescriptionConstant = "HEAD (no branch)"
)

// TrackingSummary is the structured form of the `git status -sb` branch header.
type TrackingSummary struct {
	LocalBranch    string
	UpstreamBranch string
	AheadCount     int
	BehindCount    int
	UpstreamGone   bool
	Detached       bool
	Unborn         bool
}

// ParseTrackingSummary reads the branch header emitted by `git status -sb`.
//
// Only the bracketed tracking segment contributes counts, so branch names that
// contain "ahead" or "behind" do not influence the result. Ref names cannot contain
// spaces or "[", which makes the trailing " [...]" segment unambiguous.
func ParseTrackingSummary(branchSummary string) TrackingSummary {
	header := firstLine(branchSummary)
	if !strings.HasPrefix(header, branchHeaderPrefixConstant) {
		return TrackingSummary{}
	}
	header = strings.TrimPrefix(header, branchHeaderPrefixConstant)

	if header == detachedHeadDescriptionConstant {
		return TrackingSummary{Detached: true}
	}
	summary := TrackingSummary{}
	for _, unbornPrefix := range []string{noCommitsYetPrefixConstant, initialCommitPrefixConstant} {
		if strings.HasPrefix(header, unbornPrefix) {
			header = strings.TrimPrefix(header, unbornPrefix)
			summary.Unborn = true
			break
		}
	}

	if strings.HasSuffix(header, trackingSegmentCloseConstant) {
		if segmentStart := strings.LastIndex(header, trackingSegmentOpenConstant); segmentStart >= 0 {
			trackingSegment := header[segmentStart+len(trackingSegmentOpenConstant) : len(header)-len(trackingSegmentCloseConstant)]
			summary.applyTrackingSegment(trackingSegment)
			header = header[:segmentStart]
		}
	}

	localBranch, upstreamBranch, hasUpstream := strings.Cut(header, trackingSeparatorConstant)
	summary.LocalBranch = localBranch
	if hasUpstream {
		summary.UpstreamBranch = upstreamBranch
	}
	return summary
}

// Ahead reports whether the local branch has commits missing upstream.
func (summary TrackingSummary) Ahead() bool {
	return summary.AheadCount > 0
}

// Behind reports whether the upstream has commits missing locally.
func (summary TrackingSummary) Behind() bool {
	return summary.BehindCount > 0
}

func (summary *TrackingSummary) applyTrackingSegment(trackingSegment string) {
	for _, entry := range strings.Split(trackingSegment, trackingEntrySeparatorConstant) {
		keyword, countText, _ := strings.Cut(strings.TrimSpace(entry), " ")
		switch keyword {
		case trackingAheadKeywordConstant:
			summary.AheadCount = parseCount(countText)
		case trackingBehindKeywordConstant:
			summary.BehindCount = parseCount(countText)
		case trackingGoneKeywordConstant:
			summary.UpstreamGone = true
		}
	}
}

func parseCount(countText string) int {
	count, parseError := strconv.Atoi(strings.TrimSpace(countText))
	if parseError != nil || count < 0 {
		return 0
	}
	return count
}

func firstLine(text string) string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r")
	}
	return ""
}
