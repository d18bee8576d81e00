// Package identifier derives deterministic stable IDs, anchors, and slug
// tokens for every entity in a merge report. All functions here
// are pure: given the same inputs they always produce the same outputs,
// which is a required, testable
// invariant of the whole pipeline.
package identifier

import (
	"crypto/sha1" //nolint:gosec // integrity fingerprint, not a security boundary
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s, replaces "/" and "." with "-", collapses any run of
// non-alphanumeric characters into a single "-", and trims leading/trailing
// "-".
func Slug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// StableID computes "f_" || hex12(SHA1(NFC(repoLabel) || ":" || NFC(relPath)))
// — a 12-hex-digit content-addressed token depending only on
// (repo_label, rel_path) after NFC normalization.
func StableID(repoLabel, relPath string) string {
	input := norm.NFC.String(repoLabel) + ":" + norm.NFC.String(relPath)
	sum := sha1.Sum([]byte(input)) //nolint:gosec
	return "f_" + hex.EncodeToString(sum[:])[:12]
}

// Anchor builds "file-<repo_slug>-<path_slug>[-<short_fingerprint>]". The
// fingerprint suffix is appended only when fingerprint is non-empty; it
// exists purely to break anchor collisions deterministically in large
// trees.
func Anchor(repoLabel, relPath, fingerprint string) string {
	anchor := "file-" + Slug(repoLabel) + "-" + Slug(relPath)
	if fingerprint != "" {
		short := fingerprint
		if len(short) > 6 {
			short = short[:6]
		}
		anchor += "-" + short
	}
	return anchor
}

// Dedupe returns anchor, breaking a collision against seen by appending
// fingerprint (the invariant: "anchor(f) is unique across the entire
// report; collisions are broken by appending a fingerprint suffix"). If
// fingerprint is empty or the suffixed anchor is still a collision, a
// numeric tiebreaker is appended as a last resort so the invariant never
// breaks even for two fingerprint-less binary files sharing a path slug.
func Dedupe(anchor, fingerprint string, seen map[string]bool) string {
	if !seen[anchor] {
		seen[anchor] = true
		return anchor
	}
	if fingerprint != "" {
		short := fingerprint
		if len(short) > 6 {
			short = short[:6]
		}
		candidate := anchor + "-" + short
		if !seen[candidate] {
			seen[candidate] = true
			return candidate
		}
	}
	for i := 2; ; i++ {
		candidate := anchor + "-" + itoa(i)
		if !seen[candidate] {
			seen[candidate] = true
			return candidate
		}
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
