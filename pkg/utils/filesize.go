package utils

import "fmt"

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
	GB = 1024 * MB
	TB = 1024 * GB
)

// Unit returns the display unit FormatBytes picks for a size
func Unit(bytes int64) string {
	switch {
	case bytes >= TB:
		return "TB"
	case bytes >= GB:
		return "GB"
	case bytes >= MB:
		return "MB"
	case bytes >= KB:
		return "KB"
	default:
		return "B"
	}
}

// FormatBytes converts bytes to human-readable format
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}

	switch Unit(bytes) {
	case "TB":
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case "GB":
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case "MB":
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case "KB":
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
