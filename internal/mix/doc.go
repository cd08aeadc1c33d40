// Package mix turns a caller's track selections into one Matroska file.
//
// BuildPlan validates the raw selections and consolidates them into at most
// one source file per kind. Executor then drives mkvmerge in two stages: one
// intermediate per kind (video.mkv, audio.mka, subtitle.mks) carrying only the
// selected tracks with rewritten language and disposition flags, followed by
// a single combine into the requested output. Intermediates are removed only
// when the whole mix succeeds; a failed mix leaves them for inspection.
package mix
