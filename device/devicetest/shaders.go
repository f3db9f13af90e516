// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package devicetest

// Shader sources that compile and link on Device.
const (
	VertexSource = `#version 460 core
layout(location = 0) in vec2 aPosition;
layout(location = 1) in vec2 aTexCoord;
out vec2 vTexCoord;

void main() {
	vTexCoord = aTexCoord;
	gl_Position = vec4(aPosition, 0.0, 1.0);
}
`

	FragmentSource = `#version 460 core
in vec2 vTexCoord;
out vec4 fColor;
uniform sampler2D uPostProcessingSource;
uniform vec2 uResolution;
uniform float uStrength;

void main() {
	fColor = texture(uPostProcessingSource, vTexCoord) * uStrength;
}
`

	ComputeSource = `#version 460 core
layout(local_size_x = 1, local_size_y = 1) in;
uniform sampler2D uPostProcessingSource;
layout(rgba8) uniform writeonly image2D uPostProcessingTarget;

void main() {
	ivec2 p = ivec2(gl_GlobalInvocationID.xy);
	imageStore(uPostProcessingTarget, p, texelFetch(uPostProcessingSource, p, 0));
}
`

	// BrokenSource fails to compile with an unbalanced brace.
	BrokenSource = `#version 460 core
out vec4 fColor;

void main() {
	fColor = vec4(1.0);
`
)
