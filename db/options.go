package db

// Options holds the optional parameters shared by the manifest, table
// reader, and database façade. A nil *Options means "use the default
// parameter values"; a zero field of a non-nil *Options also falls
// back to its default (mirrors the teacher package's convention),
// except VerifyChecksums, whose false value disables verification.
type Options struct {
	// Comparer defines the 'less than' relationship over user keys.
	// Defaults to DefaultComparer (bytewise) when nil.
	Comparer Comparer

	// VerifyChecksums controls whether block and record checksums are
	// validated on read. Defaults to true when the *Options is nil; in
	// a non-nil Options the field is used as set. Should only be
	// disabled for throwaway diagnostic tooling.
	VerifyChecksums bool

	// CacheShards is the number of shards the table-reader cache in
	// package ldbkv splits across, to reduce lock contention between
	// concurrent Get calls. Defaults to 16 when zero.
	CacheShards int

	// UseMMap selects memory-mapped table reads over pread-style
	// ReadAt calls where the platform supports it. Defaults to true.
	UseMMap *bool
}

func (o *Options) comparer() Comparer {
	if o == nil || o.Comparer == nil {
		return DefaultComparer
	}
	return o.Comparer
}

// GetComparer returns the effective comparer for o, defaulting to the
// bytewise comparator when o is nil or o.Comparer is unset.
func (o *Options) GetComparer() Comparer {
	return o.comparer()
}

// GetVerifyChecksums returns the effective checksum-verification
// setting for o.
func (o *Options) GetVerifyChecksums() bool {
	if o == nil {
		return true
	}
	return o.VerifyChecksums
}

// GetCacheShards returns the effective reader-cache shard count.
func (o *Options) GetCacheShards() int {
	if o == nil || o.CacheShards <= 0 {
		return 16
	}
	return o.CacheShards
}

// GetUseMMap returns the effective mmap setting.
func (o *Options) GetUseMMap() bool {
	if o == nil || o.UseMMap == nil {
		return true
	}
	return *o.UseMMap
}

// EnsureDefaults returns o if it is non-nil, or otherwise a fresh
// Options whose accessors report the same values a nil *Options does
// (VerifyChecksums set to true, every other field zero). Every Get*
// accessor already tolerates a nil receiver, so this is only needed
// when an *Options value must be threaded through to a callee that
// expects a non-nil pointer.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		return &Options{VerifyChecksums: true}
	}
	return o
}
