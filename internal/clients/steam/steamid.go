package steam

import (
	"strconv"
	"strings"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// FriendCodeOffset is added to a 32-bit account ID (friend code) to get the 64-bit Steam ID
const FriendCodeOffset uint64 = 76561197960265728

// ResolveSteamID accepts a 64-bit Steam ID or a friend code and returns the 64-bit form
func ResolveSteamID(input string) (string, error) {
	input = strings.TrimSpace(input)
	id, err := strconv.ParseUint(input, 10, 64)
	if err != nil || id == 0 {
		return "", ErrInvalidSteamID
	}

	if id < FriendCodeOffset {
		id += FriendCodeOffset
	}

	sid := steamid.New(strconv.FormatUint(id, 10))
	if !sid.Valid() {
		return "", ErrInvalidSteamID
	}

	return sid.String(), nil
}

// FriendCode returns the friend code for a 64-bit Steam ID
func FriendCode(steamID string) (string, error) {
	sid := steamid.New(steamID)
	if !sid.Valid() {
		return "", ErrInvalidSteamID
	}

	return strconv.FormatUint(uint64(sid.Int64())-FriendCodeOffset, 10), nil
}
