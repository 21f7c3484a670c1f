package taskinfo

// TaskAllInfo mirrors struct proc_taskallinfo from sys/proc_info.h: a
// proc_bsdinfo followed by a proc_taskinfo. Field names match the header.
var TaskAllInfo = NewSchema(
	U32("pbi_flags"),
	U32("pbi_status"),
	U32("pbi_xstatus"),
	U32("pbi_pid"),
	U32("pbi_ppid"),
	U32("pbi_uid"),
	U32("pbi_gid"),
	U32("pbi_ruid"),
	U32("pbi_rgid"),
	U32("pbi_svuid"),
	U32("pbi_svgid"),
	U32("rfu_1"),
	Chars("pbi_comm", 16),
	Chars("pbi_name", 32),
	U32("pbi_nfiles"),
	U32("pbi_pgid"),
	U32("pbi_pjobc"),
	U32("e_tdev"),
	U32("e_tpgid"),
	I32("pbi_nice"),
	U64("pbi_start_tvsec"),
	U64("pbi_start_tvusec"),

	U64("pti_virtual_size"),
	U64("pti_resident_size"),
	U64("pti_total_user"),
	U64("pti_total_system"),
	U64("pti_threads_user"),
	U64("pti_threads_system"),
	I32("pti_policy"),
	I32("pti_faults"),
	I32("pti_pageins"),
	I32("pti_cow_faults"),
	I32("pti_messages_sent"),
	I32("pti_messages_received"),
	I32("pti_syscalls_mach"),
	I32("pti_syscalls_unix"),
	I32("pti_csw"),
	I32("pti_threadnum"),
	I32("pti_numrunning"),
	I32("pti_priority"),
)

// RusageV2 mirrors struct rusage_info_v2 from sys/resource.h
var RusageV2 = NewSchema(
	Chars("ri_uuid", 16),
	U64("ri_user_time"),
	U64("ri_system_time"),
	U64("ri_pkg_idle_wkups"),
	U64("ri_interrupt_wkups"),
	U64("ri_pageins"),
	U64("ri_wired_size"),
	U64("ri_resident_size"),
	U64("ri_phys_footprint"),
	U64("ri_proc_start_abstime"),
	U64("ri_proc_exit_abstime"),
	U64("ri_child_user_time"),
	U64("ri_child_system_time"),
	U64("ri_child_pkg_idle_wkups"),
	U64("ri_child_interrupt_wkups"),
	U64("ri_child_pageins"),
	U64("ri_child_elapsed_abstime"),
	U64("ri_diskio_bytesread"),
	U64("ri_diskio_byteswritten"),
)
