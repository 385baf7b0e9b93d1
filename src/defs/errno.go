package defs

/// Err_t is an errno-style result code. Zero means success; failures are
/// returned as the negated constant.
type Err_t int

/// Error codes used by the disk driver.
const (
	EINTR     Err_t = 4
	EIO       Err_t = 5
	ENXIO     Err_t = 6
	EAGAIN    Err_t = 11
	ENOMEM    Err_t = 12
	EBUSY     Err_t = 16
	ENODEV    Err_t = 19
	EINVAL    Err_t = 22
	ENOSPC    Err_t = 28
	ENOSYS    Err_t = 38
	ETIMEDOUT Err_t = 110
)

var errstr = map[Err_t]string{
	EINTR:     "EINTR",
	EIO:       "EIO",
	ENXIO:     "ENXIO",
	EAGAIN:    "EAGAIN",
	ENOMEM:    "ENOMEM",
	EBUSY:     "EBUSY",
	ENODEV:    "ENODEV",
	EINVAL:    "EINVAL",
	ENOSPC:    "ENOSPC",
	ENOSYS:    "ENOSYS",
	ETIMEDOUT: "ETIMEDOUT",
}

/// String renders the code for log messages.
func (e Err_t) String() string {
	if e == 0 {
		return "OK"
	}
	n := e
	if n < 0 {
		n = -n
	}
	if s, ok := errstr[n]; ok {
		return s
	}
	return "E?"
}
