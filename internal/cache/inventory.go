package cache

import (
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	CategoryKeyPrefix = "category:%d"
	AddressKeyPrefix  = "address:user:%d"
	BlacklistPrefix   = "blacklist:%s"
)

const (
	UserTTL     = 5 * time.Minute
	CategoryTTL = time.Hour
	AddressTTL  = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func CategoryKey(categoryID uint) string {
	return fmt.Sprintf(CategoryKeyPrefix, categoryID)
}

// AddressKey is keyed by owning user since that is how the address service is queried.
func AddressKey(userID uint) string {
	return fmt.Sprintf(AddressKeyPrefix, userID)
}

func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistPrefix, jti)
}
