// Package xfile 提供日志目录与日志文件路径相关的文件系统工具。
//
// # 目录
//
//   - [EnsureDirPath]: 确保目录本身存在（日志输出目录）
//   - [EnsureDir]: 确保文件的父目录存在（日志文件）
//
// 目录使用 [DefaultDirPerm]（0750）创建，日志文件使用 [DefaultFilePerm]（0640）。
//
// # 路径
//
//   - [SanitizePath]: 规范化路径，拒绝空路径、空字节、目录形式路径和相对路径穿越
//   - [ExpandHome]: 展开 "~" 前缀
//   - [StripExt]: 取不带扩展名的基础文件名（程序名 → 日志文件名）
package xfile
