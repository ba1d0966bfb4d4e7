package rtabi

// Default target. Code generation accepts an override.
const (
	TargetTriple = "x86_64-unknown-linux-gnu"
	DataLayout   = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128"
)

// Basic type sizes in bytes.
const (
	SizeInt    = 8  // int64_t
	SizeFloat  = 8  // double
	SizeBool   = 1  // int8_t in memory, i1 in registers
	SizePtr    = 8  // pointer
	SizeString = 16 // { ptr, len }
	SizeArray  = 16 // { ptr, len }
	SizeEnum   = 8  // variant ordinal
)

// Basic type alignments in bytes.
const (
	AlignInt    = 8
	AlignFloat  = 8
	AlignBool   = 1
	AlignPtr    = 8
	AlignString = 8
	AlignArray  = 8
	AlignEnum   = 8
)

// LLVM type names for code generation.
const (
	LLVMTypeInt    = "i64"
	LLVMTypeFloat  = "double"
	LLVMTypeBool   = "i8" // in memory and at the runtime boundary
	LLVMTypeBoolI1 = "i1" // in registers
	LLVMTypePtr    = "ptr"
	LLVMTypeString = "{ ptr, i64 }"
	LLVMTypeArray  = "{ ptr, i64 }"
	LLVMTypeEnum   = "i64"
)
