package docbridge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Metadata defaults applied by Normalize.
const (
	DefaultRemoteContentType = "documentation"
	DefaultLocalContentType  = "text"
	UnknownSection           = "unknown"
	UnknownSource            = "unknown"
)

// MaxTrustScore is the upper bound of a record trust score.
const MaxTrustScore = 10

// recordNamespace scopes name-based record ids.
var recordNamespace = uuid.MustParse("6f1d0c1e-3b7a-5c52-9a55-1f6f0c2b8d41")

// Record is the atomic unit stored in a collection.
type Record struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata RecordMetadata `json:"metadata"`
}

// RecordMetadata describes where a record came from.
type RecordMetadata struct {
	SourceName  string    `json:"source_name"`
	Origin      string    `json:"origin"`
	ContentType string    `json:"content_type"`
	Section     string    `json:"section"`
	HasCode     bool      `json:"has_code"`
	TrustScore  int       `json:"trust_score"`
	ContentHash string    `json:"content_hash"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "record ID required")
	}
	if r.Metadata.SourceName == "" {
		return Errorf(EINVALID, "record %s source name required", r.ID)
	}
	if r.Metadata.TrustScore < 0 || r.Metadata.TrustScore > MaxTrustScore {
		return Errorf(EINVALID, "record %s trust score %d out of range", r.ID, r.Metadata.TrustScore)
	}
	return nil
}

// ContentHash returns the xxHash64 of content as a 16 character hex string.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// RecordID derives a stable identifier from the source name, origin, the
// unit's position in the source and the hash of its content. Loading the
// same content twice yields the same ids, so upserts replace in place.
func RecordID(sourceName, origin string, index int, contentHash string) string {
	key := strings.Join([]string{sourceName, origin, strconv.Itoa(index), contentHash}, "\x00")
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}

// Normalize maps a raw unit at position index of src into a Record stamped
// with now. It never fails: an empty unit still becomes a record.
func Normalize(unit *RawUnit, src *Source, index int, now time.Time) *Record {
	hash := ContentHash(unit.Content)

	contentType := unit.Type
	if contentType == "" {
		contentType = DefaultLocalContentType
		if unit.Mode == ModeRemote {
			contentType = DefaultRemoteContentType
		}
	}

	section := unit.Section
	if section == "" {
		section = UnknownSection
	}

	return &Record{
		ID:      RecordID(src.Name, src.Origin, index, hash),
		Content: unit.Content,
		Metadata: RecordMetadata{
			SourceName:  src.Name,
			Origin:      src.Origin,
			ContentType: contentType,
			Section:     section,
			HasCode:     unit.HasCode,
			TrustScore:  trustScore(unit),
			ContentHash: hash,
			LoadedAt:    now.UTC(),
		},
	}
}

// NormalizeAll normalizes units in order, one record per unit.
func NormalizeAll(units []*RawUnit, src *Source, now time.Time) []*Record {
	records := make([]*Record, 0, len(units))
	for i, unit := range units {
		records = append(records, Normalize(unit, src, i, now))
	}
	return records
}

func trustScore(unit *RawUnit) int {
	if unit.TrustScore != nil {
		return min(max(*unit.TrustScore, 0), MaxTrustScore)
	}
	switch unit.Mode {
	case ModeRemote:
		return DefaultRemoteTrustScore
	case ModeConverted:
		return DefaultConvertedTrustScore
	default:
		return DefaultChunkedTrustScore
	}
}
