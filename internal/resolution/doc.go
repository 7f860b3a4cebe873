// Package resolution drafts customer-facing resolutions for complaints.
//
// A Resolver classifies the complaint, looks up the matching support policy
// and then either asks a generative Drafter for the text or, when none is
// configured or it fails, composes a templated reply around the closest
// canned response from a SimilarityModel.
package resolution
