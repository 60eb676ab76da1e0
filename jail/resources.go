// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

// FreezerState requests a freezer cgroup transition.
type FreezerState string

const (
	// Undefined leaves the freezer untouched.
	Undefined FreezerState = ""
	Frozen    FreezerState = "FROZEN"
	Thawed    FreezerState = "THAWED"
)

// HugepageLimit bounds usage of one hugepage size.
type HugepageLimit struct {
	// Pagesize in humanized form ("2MB", "1GB").
	Pagesize string `json:"page_size"`
	// Limit in bytes.
	Limit uint64 `json:"limit"`
}

// WeightDevice assigns a blkio weight to one block device.
type WeightDevice struct {
	Major int64 `json:"major"`
	Minor int64 `json:"minor"`
	// Weight and LeafWeight are in the cgroup range [10, 1000].
	Weight     uint16 `json:"weight"`
	LeafWeight uint16 `json:"leaf_weight"`
}

// ThrottleDevice caps a per-device I/O rate (bytes or operations per
// second, depending on which Resources list it sits in).
type ThrottleDevice struct {
	Major int64  `json:"major"`
	Minor int64  `json:"minor"`
	Rate  uint64 `json:"rate"`
}

// IfPrioMap assigns a net_prio priority to traffic leaving one
// network interface.
type IfPrioMap struct {
	Interface string `json:"interface"`
	Priority  int64  `json:"priority"`
}

// Resources holds the cgroup controller limits for a container. Pure
// value data: each field is either the zero value (no limit) or a
// value the cgroup manager writes to the matching controller file.
// Range enforcement belongs to the cgroup manager, which sees the
// kernel's responses; the validation engine does not second-guess it.
type Resources struct {
	// Memory limit in bytes.
	Memory int64 `json:"memory"`
	// MemoryReservation is the soft memory limit in bytes.
	MemoryReservation int64 `json:"memory_reservation"`
	// MemorySwap is the combined memory+swap limit in bytes.
	MemorySwap int64 `json:"memory_swap"`
	// KernelMemory limit in bytes.
	KernelMemory int64 `json:"kernel_memory"`

	// OomKillDisable turns the OOM killer off for the cgroup.
	OomKillDisable bool `json:"oom_kill_disable"`

	// CpuShares is the relative CPU weight.
	CpuShares uint64 `json:"cpu_shares"`
	// CpuQuota is the CFS runtime per period, in microseconds.
	CpuQuota int64 `json:"cpu_quota"`
	// CpuPeriod is the CFS period, in microseconds.
	CpuPeriod uint64 `json:"cpu_period"`
	// CpuRtRuntime and CpuRtPeriod bound realtime scheduling, in
	// microseconds.
	CpuRtRuntime int64  `json:"cpu_rt_runtime"`
	CpuRtPeriod  uint64 `json:"cpu_rt_period"`

	// CpusetCpus and CpusetMems pin the cgroup to CPUs and memory
	// nodes, in cpuset list syntax ("0-3,7").
	CpusetCpus string `json:"cpuset_cpus"`
	CpusetMems string `json:"cpuset_mems"`

	// PidsLimit caps the number of tasks. Negative means unlimited.
	PidsLimit int64 `json:"pids_limit"`

	// BlkioWeight and BlkioLeafWeight set the default blkio weights
	// in the range [10, 1000].
	BlkioWeight     uint16 `json:"blkio_weight"`
	BlkioLeafWeight uint16 `json:"blkio_leaf_weight"`

	BlkioWeightDevice          []*WeightDevice   `json:"blkio_weight_device,omitempty"`
	BlkioThrottleReadBpsDevice []*ThrottleDevice `json:"blkio_throttle_read_bps_device,omitempty"`
	BlkioThrottleWriteBpsDevice []*ThrottleDevice `json:"blkio_throttle_write_bps_device,omitempty"`
	BlkioThrottleReadIOPSDevice []*ThrottleDevice `json:"blkio_throttle_read_iops_device,omitempty"`
	BlkioThrottleWriteIOPSDevice []*ThrottleDevice `json:"blkio_throttle_write_iops_device,omitempty"`

	// Freezer requests a freezer state transition.
	Freezer FreezerState `json:"freezer,omitempty"`

	// HugetlbLimit bounds hugepage usage per page size.
	HugetlbLimit []*HugepageLimit `json:"hugetlb_limit,omitempty"`

	// NetPrioIfpriomap and NetClsClassid configure the net_prio and
	// net_cls controllers.
	NetPrioIfpriomap []*IfPrioMap `json:"net_prio_ifpriomap,omitempty"`
	NetClsClassid    uint32       `json:"net_cls_classid"`
}
