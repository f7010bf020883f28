package entities

import "time"

// ComponentConfiguration is the property set of one configurable component.
// Properties are untyped because every component defines its own schema.
type ComponentConfiguration struct {
	PID        string                 `json:"pid" yaml:"pid"`
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
}

// LinkInfo is the live state of a kernel network link
type LinkInfo struct {
	Name         string   `json:"name"`
	Index        int      `json:"index"`
	HardwareType string   `json:"hwType"`
	HwAddress    string   `json:"hwAddress,omitempty"`
	MTU          int      `json:"mtu"`
	Up           bool     `json:"up"`
	Addresses    []string `json:"addresses,omitempty"`
}

// DeviceStatus summarises the gateway for the console's status page
type DeviceStatus struct {
	Hostname      string     `json:"hostname"`
	OSType        string     `json:"osType"`
	KernelVersion string     `json:"kernelVersion,omitempty"`
	Uptime        string     `json:"uptime"`
	Timestamp     time.Time  `json:"timestamp"`
	Interfaces    []LinkInfo `json:"interfaces"`
}

// PackageInfo is one installed OS package
type PackageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CertificateInfo describes an installed certificate
type CertificateInfo struct {
	Alias        string    `json:"alias"`
	Subject      string    `json:"subject"`
	Issuer       string    `json:"issuer"`
	SerialNumber string    `json:"serialNumber"`
	NotBefore    time.Time `json:"notBefore"`
	NotAfter     time.Time `json:"notAfter"`
	IsCA         bool      `json:"isCA"`
}
