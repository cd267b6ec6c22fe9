// Package xid 生成 W3C Trace Context 使用的 trace-id（16 字节）与 span-id（8 字节）。
//
// # 生成器
//
//   - RandomGenerator: trace-id 与 span-id 均来自 UUIDv4 的随机字节（crypto/rand），
//     无状态、无需初始化，是默认选择
//   - FlakeGenerator: trace-id 使用 UUIDv7（时间有序），span-id 使用 Sonyflake
//     （单机内严格递增、跨机器通过机器 ID 区分），便于按时间排序排查
//
// 两种生成器都保证返回的 ID 至少含一个非零字节（全零 ID 在 W3C 中是保留值）。
//
// # 机器 ID
//
// FlakeGenerator 默认使用 DefaultMachineID，按以下优先级获取：
//
//  1. XID_MACHINE_ID 环境变量（0-65535）
//  2. POD_NAME 环境变量的 xxhash 折叠值
//  3. os.Hostname() 的 xxhash 折叠值
//
// 哈希方式存在碰撞可能，大规模部署请通过 XID_MACHINE_ID 显式分配。
package xid
