package defs

/// Atatype_t classifies a device attached to an ATA controller, as reported
/// by the cylinder-register signature after a soft reset.
type Atatype_t int

/// Device classes returned by the type probe.
const (
	ATA_TYPE_UNKNOWN Atatype_t = 0 /// no device or unrecognized signature
	ATA_TYPE_PATA    Atatype_t = 1 /// parallel ATA disk
	ATA_TYPE_PATAPI  Atatype_t = 2 /// parallel ATAPI packet device
	ATA_TYPE_SATA    Atatype_t = 3 /// SATA disk behind a legacy bridge
	ATA_TYPE_SATAPI  Atatype_t = 4 /// SATA packet device behind a bridge
)

/// String returns the class name for log messages.
func (t Atatype_t) String() string {
	switch t {
	case ATA_TYPE_PATA:
		return "PATA"
	case ATA_TYPE_PATAPI:
		return "PATAPI"
	case ATA_TYPE_SATA:
		return "SATA"
	case ATA_TYPE_SATAPI:
		return "SATAPI"
	}
	return "unknown"
}
