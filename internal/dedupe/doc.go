// Package dedupe finds duplicate address objects within a scope.
//
// Normalize maps a raw address value to a canonical string so that
// equivalent spellings ("1.1.1.1" and "1.1.1.1/32", or "10.0.0.5/24" and
// "10.0.0.0/24") compare equal. Values that are not IP addresses or prefixes
// (FQDNs, ranges, wildcards) are compared literally after trimming.
//
// Classify groups the objects of one scope by name and by normalized value
// and returns one report row per object that shares either key with another
// object. The normalized value is only used for comparison; rows always
// carry the object's own raw value.
package dedupe
