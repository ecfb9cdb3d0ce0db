package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShareLinkTTL is the retention window for public links. A TTL index on
// the created field removes expired entries, the presigned url they
// carry expires at the same moment.
const ShareLinkTTL = time.Hour

// ShareLink is a time-limited public url pointing to a rendered PDF.
// At most one current link per document exists, the store keeps that
// invariant with an atomic upsert keyed by the document id.
type ShareLink struct {
	Id       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Document primitive.ObjectID `json:"document" bson:"document"`
	Url      string             `json:"url" bson:"url"`
	Created  time.Time          `json:"created" bson:"created"`
}

// Expired reports whether the link is past its retention window. The
// TTL index removal is not immediate, so reads check as well.
func (s *ShareLink) Expired() bool {
	return time.Since(s.Created) > ShareLinkTTL
}
