// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Defines are preprocessor symbols injected into a shader at compile time.
type Defines map[string]string

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	return CompileProgramWithDefines(vertexSrc, fragmentSrc, nil)
}

// CompileProgramWithDefines is CompileProgram with defs inserted into both
// stages right after their #version line.
func CompileProgramWithDefines(vertexSrc, fragmentSrc string, defs Defines) (uint32, error) {
	vertShader, err := compileShader(Inject(vertexSrc, defs), gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(Inject(fragmentSrc, defs), gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	// Link program
	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(string(log), "\x00"))
	}

	return program, nil
}

// Inject returns src with one #define line per entry of defs, sorted by
// name, placed after the #version directive. Sources without a #version
// line get the defines prepended.
func Inject(src string, defs Defines) string {
	if len(defs) == 0 {
		return src
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	var block strings.Builder
	for _, name := range names {
		fmt.Fprintf(&block, "#define %s %s\n", name, defs[name])
	}

	trimmed := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return block.String() + src
	}

	offset := len(src) - len(trimmed)
	end := strings.IndexByte(trimmed, '\n')
	if end < 0 {
		return src + "\n" + block.String()
	}
	cut := offset + end + 1
	return src[:cut] + block.String() + src[cut:]
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, strings.TrimRight(string(log), "\x00"))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// ErrUniformNotFound is returned when a required uniform is missing or
// was optimized out of the program.
var ErrUniformNotFound = errors.New("uniform not found")

// RequireUniforms returns the locations of names, failing if any of them
// is not active in program.
func RequireUniforms(program uint32, names ...string) (map[string]int32, error) {
	locs, err := resolveUniforms(names, func(name string) int32 {
		return GetUniform(program, name)
	})
	if err != nil {
		return nil, fmt.Errorf("program %d: %w", program, err)
	}
	return locs, nil
}

func resolveUniforms(names []string, lookup func(string) int32) (map[string]int32, error) {
	locs := make(map[string]int32, len(names))
	var missing []string
	for _, name := range names {
		loc := lookup(name)
		if loc < 0 {
			missing = append(missing, name)
			continue
		}
		locs[name] = loc
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUniformNotFound, strings.Join(missing, ", "))
	}
	return locs, nil
}

// BindUniformBlock assigns the named uniform block to binding and returns
// the block's data size as reported by the driver.
func BindUniformBlock(program uint32, name string, binding uint32) (int32, error) {
	index := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
	if index == gl.INVALID_INDEX {
		return 0, fmt.Errorf("uniform block %q not found in program %d", name, program)
	}
	gl.UniformBlockBinding(program, index, binding)

	var size int32
	gl.GetActiveUniformBlockiv(program, index, gl.UNIFORM_BLOCK_DATA_SIZE, &size)
	return size, nil
}
