package badger

import "encoding/binary"

// The badger keyspace is partitioned into three primitive namespaces:
//
//	h:<key>:<field>                  one hash field, value = field value
//	zs:<indexKey>:<score><member>    one sorted-set entry, score big-endian
//	zm:<indexKey>:<member>           member locator, value = score
//
// Scores are written in big-endian order so lexicographic key order matches
// numeric score order and range reads come back score-ascending. The member
// locator exists so a member can be re-scored or removed without knowing its
// current score.
const (
	hashPrefix       = "h"
	zsetScorePrefix  = "zs"
	zsetMemberPrefix = "zm"
)

// Entity key and index templates. These are the wire format shared with data
// written by prior versions and must not change.
const usersIndex = "users"

func userKey(email string) string { return "user:" + email }

func chatKey(id string) string { return "chat:" + id }

func documentKey(id string) string { return "document:" + id }

func suggestionKey(id string) string { return "suggestion:" + id }

func userChatIndex(userID string) string { return "user:chat:" + userID }

func userDocumentIndex(userID string) string { return "user:document:" + userID }

func userSuggestionIndex(userID string) string { return "user:suggestion:" + userID }

func documentSuggestionsIndex(documentID string) string {
	return "document:suggestions:" + documentID
}

// makeHashPrefix generates the scan prefix covering all fields of a hash.
func makeHashPrefix(key string) []byte {
	return []byte(hashPrefix + ":" + key + ":")
}

// makeHashFieldKey generates the key holding one field of a hash.
func makeHashFieldKey(key, field string) []byte {
	return []byte(hashPrefix + ":" + key + ":" + field)
}

// makeZSetPrefix generates the scan prefix covering a sorted set's entries.
func makeZSetPrefix(indexKey string) []byte {
	return []byte(zsetScorePrefix + ":" + indexKey + ":")
}

// makeZSetScoreKey generates a composite key for one sorted-set entry.
// Format: zs:<indexKey>:<8-byte big-endian score><member>
func makeZSetScoreKey(indexKey string, score int64, member string) []byte {
	prefix := makeZSetPrefix(indexKey)
	buf := make([]byte, len(prefix)+8+len(member))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(score))
	offset += 8
	copy(buf[offset:], member)
	return buf
}

// makeZSetMemberKey generates the locator key for a sorted-set member.
func makeZSetMemberKey(indexKey, member string) []byte {
	return []byte(zsetMemberPrefix + ":" + indexKey + ":" + member)
}

func encodeScore(score int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(score))
	return buf
}

func decodeScore(data []byte) int64 {
	if len(data) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(data))
}
