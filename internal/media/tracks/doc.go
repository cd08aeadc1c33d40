// Package tracks discovers the streams inside a media container and
// normalizes them into one Track shape.
//
// Matroska files (mkv, mka, mks) are identified with `mkvmerge -J`; anything
// else goes through ffprobe. Both reports are mapped onto the same fields:
// codec with fallbacks, language code and display name, disposition flags,
// charset, a free-form attribute string, and the container name and
// human-readable file size shared by every track of one probe.
package tracks
